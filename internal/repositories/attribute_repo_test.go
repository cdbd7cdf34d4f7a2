package repositories

import (
	"context"
	"testing"

	"farmmarket/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AttributeRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       AttributeRepository
	categoryID uuid.UUID
	context    context.Context
}

func (suite *AttributeRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewAttributeRepo(mock)
	suite.categoryID = uuid.New()
	suite.context = context.Background()
}

func (suite *AttributeRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestAttributeRepoTestSuite(t *testing.T) {
	suite.Run(t, new(AttributeRepoTestSuite))
}

func (suite *AttributeRepoTestSuite) TestInsertBatch_AssignsIDsAndCategory() {
	attributes := []*models.Attribute{
		{Name: "Color", IsRequired: true},
		{Name: "Origin"},
	}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO attributes`).
		WithArgs(pgxmock.AnyArg(), "Color", true, suite.categoryID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO attributes`).
		WithArgs(pgxmock.AnyArg(), "Origin", false, suite.categoryID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	tx, err := suite.mock.Begin(suite.context)
	assert.NoError(suite.T(), err)

	err = suite.repo.InsertBatch(suite.context, tx, suite.categoryID, attributes)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), tx.Commit(suite.context))

	for _, attribute := range attributes {
		assert.NotEqual(suite.T(), uuid.Nil, attribute.ID)
		assert.Equal(suite.T(), suite.categoryID, attribute.CategoryID)
	}
}

func (suite *AttributeRepoTestSuite) TestInsertBatch_EmptyIsNoOp() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectCommit()

	tx, err := suite.mock.Begin(suite.context)
	assert.NoError(suite.T(), err)

	err = suite.repo.InsertBatch(suite.context, tx, suite.categoryID, nil)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), tx.Commit(suite.context))
}

func (suite *AttributeRepoTestSuite) TestInsertBatch_RejectsEmptyName() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectRollback()

	tx, err := suite.mock.Begin(suite.context)
	assert.NoError(suite.T(), err)

	err = suite.repo.InsertBatch(suite.context, tx, suite.categoryID, []*models.Attribute{{Name: ""}})
	assert.ErrorIs(suite.T(), err, ErrValidation)
	assert.NoError(suite.T(), tx.Rollback(suite.context))
}

func (suite *AttributeRepoTestSuite) TestUpdate_NotFound() {
	attribute := &models.Attribute{ID: uuid.New(), Name: "Color"}

	suite.mock.ExpectExec(`UPDATE attributes`).
		WithArgs("Color", false, attribute.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.Update(suite.context, attribute)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *AttributeRepoTestSuite) TestDelete_Success() {
	id := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM attributes WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, id)
	assert.NoError(suite.T(), err)
}

func (suite *AttributeRepoTestSuite) TestListByCategory() {
	attributeID := uuid.New()

	suite.mock.ExpectQuery(`SELECT id, name, is_required, category_id\s+FROM attributes\s+WHERE category_id = \$1`).
		WithArgs(suite.categoryID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "is_required", "category_id"}).
			AddRow(attributeID, "Color", true, suite.categoryID))

	attributes, err := suite.repo.ListByCategory(suite.context, suite.categoryID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), attributes, 1)
	assert.Equal(suite.T(), "Color", attributes[0].Name)
}
