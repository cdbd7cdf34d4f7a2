package background

import (
	"context"
	"log"
	"sync"
	"time"

	"farmmarket/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler runs the periodic maintenance jobs.
type JobScheduler struct {
	scheduler   gocron.Scheduler
	categorySvc services.CategoryService
	jobs        map[string]gocron.Job
	mu          sync.RWMutex
}

func NewJobScheduler(categorySvc services.CategoryService) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:   scheduler,
		categorySvc: categorySvc,
		jobs:        make(map[string]gocron.Job),
	}
	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	// Rewarm root category hierarchies before their cache TTL lapses.
	rewarmJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.rewarmHierarchies),
	)
	if err != nil {
		return err
	}

	js.mu.Lock()
	js.jobs["hierarchy_rewarm"] = rewarmJob
	js.mu.Unlock()
	return nil
}

func (js *JobScheduler) rewarmHierarchies() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := js.categorySvc.RewarmHierarchies(ctx); err != nil {
		log.Printf("hierarchy rewarm job: %v", err)
	}
}
