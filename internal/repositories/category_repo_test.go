package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"farmmarket/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CategoryRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       CategoryRepository
	categoryID uuid.UUID
	context    context.Context
}

func (suite *CategoryRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewCategoryRepo(mock, NewAttributeRepo(mock))
	suite.categoryID = uuid.New()
	suite.context = context.Background()
}

func (suite *CategoryRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestCategoryRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryRepoTestSuite))
}

func (suite *CategoryRepoTestSuite) TestCreateWithAttributes_Success() {
	category := &models.Category{ID: suite.categoryID, Name: "Fruits"}
	attributes := []*models.Attribute{
		{Name: "Color", IsRequired: true},
		{Name: "Origin", IsRequired: false},
	}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories WHERE name = \$1`).
		WithArgs("Fruits").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	suite.mock.ExpectExec(`INSERT INTO categories`).
		WithArgs(category.ID, "Fruits", pgxmock.AnyArg(), false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO attributes`).
		WithArgs(pgxmock.AnyArg(), "Color", true, category.ID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO attributes`).
		WithArgs(pgxmock.AnyArg(), "Origin", false, category.ID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()
	suite.mock.ExpectRollback() // deferred rollback after commit is a no-op

	err := suite.repo.CreateWithAttributes(suite.context, category, attributes)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), category.ID, attributes[0].CategoryID)
	assert.NotEqual(suite.T(), uuid.Nil, attributes[0].ID)
}

func (suite *CategoryRepoTestSuite) TestCreateWithAttributes_DuplicateName() {
	category := &models.Category{ID: suite.categoryID, Name: "Fruits"}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories WHERE name = \$1`).
		WithArgs("Fruits").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	suite.mock.ExpectRollback()

	err := suite.repo.CreateWithAttributes(suite.context, category, []*models.Attribute{{Name: "Color"}})
	assert.ErrorIs(suite.T(), err, ErrDuplicateName)
}

func (suite *CategoryRepoTestSuite) TestCreateWithAttributes_AttributeFailureRollsBack() {
	category := &models.Category{ID: suite.categoryID, Name: "Fruits"}
	attributes := []*models.Attribute{
		{Name: "Color", IsRequired: true},
		{Name: "Origin", IsRequired: false},
	}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories WHERE name = \$1`).
		WithArgs("Fruits").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	suite.mock.ExpectExec(`INSERT INTO categories`).
		WithArgs(category.ID, "Fruits", pgxmock.AnyArg(), false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO attributes`).
		WithArgs(pgxmock.AnyArg(), "Color", true, category.ID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO attributes`).
		WithArgs(pgxmock.AnyArg(), "Origin", false, category.ID).
		WillReturnError(errors.New("value too long"))
	suite.mock.ExpectRollback()

	err := suite.repo.CreateWithAttributes(suite.context, category, attributes)
	assert.ErrorIs(suite.T(), err, ErrTransaction)
}

func (suite *CategoryRepoTestSuite) TestUpdateWithAttributes_OwnNameAllowed() {
	category := &models.Category{ID: suite.categoryID, Name: "Fruits", IsApproved: true}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories WHERE name = \$1 AND id != \$2`).
		WithArgs("Fruits", category.ID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	suite.mock.ExpectExec(`UPDATE categories`).
		WithArgs("Fruits", pgxmock.AnyArg(), true, category.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()
	suite.mock.ExpectRollback()

	err := suite.repo.UpdateWithAttributes(suite.context, category, nil)
	assert.NoError(suite.T(), err)
}

func (suite *CategoryRepoTestSuite) TestUpdateWithAttributes_NameCollision() {
	category := &models.Category{ID: suite.categoryID, Name: "Vegetables"}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories WHERE name = \$1 AND id != \$2`).
		WithArgs("Vegetables", category.ID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	suite.mock.ExpectRollback()

	err := suite.repo.UpdateWithAttributes(suite.context, category, nil)
	assert.ErrorIs(suite.T(), err, ErrDuplicateName)
}

func (suite *CategoryRepoTestSuite) TestUpdateWithAttributes_ParentCycleRejected() {
	parentID := uuid.New()
	category := &models.Category{ID: suite.categoryID, Name: "Fruits", ParentID: &parentID}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories WHERE name = \$1 AND id != \$2`).
		WithArgs("Fruits", category.ID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	suite.mock.ExpectQuery(`WITH RECURSIVE subtree`).
		WithArgs(category.ID, parentID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	suite.mock.ExpectRollback()

	err := suite.repo.UpdateWithAttributes(suite.context, category, nil)
	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *CategoryRepoTestSuite) TestUpdateWithAttributes_NotFound() {
	category := &models.Category{ID: suite.categoryID, Name: "Fruits"}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories WHERE name = \$1 AND id != \$2`).
		WithArgs("Fruits", category.ID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	suite.mock.ExpectExec(`UPDATE categories`).
		WithArgs("Fruits", pgxmock.AnyArg(), false, category.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectRollback()

	err := suite.repo.UpdateWithAttributes(suite.context, category, nil)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *CategoryRepoTestSuite) TestDelete_RemovesAttributesAndCategory() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories WHERE id = \$1`).
		WithArgs(suite.categoryID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	suite.mock.ExpectExec(`DELETE FROM attributes WHERE category_id = \$1`).
		WithArgs(suite.categoryID).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))
	suite.mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).
		WithArgs(suite.categoryID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	suite.mock.ExpectCommit()
	suite.mock.ExpectRollback()

	err := suite.repo.Delete(suite.context, suite.categoryID)
	assert.NoError(suite.T(), err)
}

func (suite *CategoryRepoTestSuite) TestDelete_NotFound() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories WHERE id = \$1`).
		WithArgs(suite.categoryID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	suite.mock.ExpectRollback()

	err := suite.repo.Delete(suite.context, suite.categoryID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *CategoryRepoTestSuite) TestGetHierarchy_SingleNodeWithAttribute() {
	now := time.Now()
	attributeID := uuid.New()

	suite.mock.ExpectQuery(`WITH RECURSIVE subtree`).
		WithArgs(suite.categoryID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "parent_id", "is_approved", "created_at", "updated_at"}).
			AddRow(suite.categoryID, "Fruits", nil, false, now, now))
	suite.mock.ExpectQuery(`SELECT id, name, is_required, category_id\s+FROM attributes`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "is_required", "category_id"}).
			AddRow(attributeID, "Color", true, suite.categoryID))

	node, err := suite.repo.GetHierarchy(suite.context, suite.categoryID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Fruits", node.Name)
	assert.Len(suite.T(), node.Attributes, 1)
	assert.Equal(suite.T(), "Color", node.Attributes[0].Name)
	assert.Empty(suite.T(), node.Children)
}

func (suite *CategoryRepoTestSuite) TestGetHierarchy_BuildsSubtree() {
	now := time.Now()
	childID := uuid.New()
	grandchildID := uuid.New()

	suite.mock.ExpectQuery(`WITH RECURSIVE subtree`).
		WithArgs(suite.categoryID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "parent_id", "is_approved", "created_at", "updated_at"}).
			AddRow(suite.categoryID, "Produce", nil, true, now, now).
			AddRow(childID, "Fruits", &suite.categoryID, true, now, now).
			AddRow(grandchildID, "Citrus", &childID, false, now, now))
	suite.mock.ExpectQuery(`SELECT id, name, is_required, category_id\s+FROM attributes`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "is_required", "category_id"}))

	node, err := suite.repo.GetHierarchy(suite.context, suite.categoryID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), node.Children, 1)
	assert.Equal(suite.T(), "Fruits", node.Children[0].Name)
	assert.Len(suite.T(), node.Children[0].Children, 1)
	assert.Equal(suite.T(), "Citrus", node.Children[0].Children[0].Name)
}

func (suite *CategoryRepoTestSuite) TestGetHierarchy_NotFound() {
	suite.mock.ExpectQuery(`WITH RECURSIVE subtree`).
		WithArgs(suite.categoryID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "parent_id", "is_approved", "created_at", "updated_at"}))

	_, err := suite.repo.GetHierarchy(suite.context, suite.categoryID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}
