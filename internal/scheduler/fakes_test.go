package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/benvon/task-metrics/internal/database"
	"github.com/benvon/task-metrics/internal/models"
	"github.com/google/uuid"
)

// fakeTaskRepo is an in-memory TaskRepositoryInterface. It enforces the same
// (template_id, for_date) uniqueness as the Postgres partial index so
// generator idempotence can be exercised without a database.
type fakeTaskRepo struct {
	mu        sync.Mutex
	tasks     map[uuid.UUID]*models.Task
	pairs     map[string]bool
	createErr error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{
		tasks: make(map[uuid.UUID]*models.Task),
		pairs: make(map[string]bool),
	}
}

func pairKey(templateID uuid.UUID, date models.Date) string {
	return templateID.String() + "|" + string(date)
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskRepo) CreateDailyInstance(ctx context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

	key := pairKey(*task.TemplateID, *task.ForDate)
	if f.pairs[key] {
		return fmt.Errorf("instance for template %s on %s: %w", task.TemplateID, *task.ForDate, database.ErrDuplicate)
	}
	f.pairs[key] = true
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, database.ErrNotFound)
	}
	return task, nil
}

func (f *fakeTaskRepo) List(ctx context.Context) ([]*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Task
	for _, t := range f.tasks {
		if !t.IsDailyInstance() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) ListByDate(ctx context.Context, date models.Date) ([]*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Task
	for _, t := range f.tasks {
		if t.ForDate != nil && *t.ForDate == date {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, database.ErrNotFound)
	}
	delete(f.tasks, id)
	return nil
}

// fakeTemplateRepo is an in-memory TemplateRepositoryInterface
type fakeTemplateRepo struct {
	mu        sync.Mutex
	templates []*models.Template
	listErr   error
}

func (f *fakeTemplateRepo) Create(ctx context.Context, template *models.Template) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templates = append(f.templates, template)
	return nil
}

func (f *fakeTemplateRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.templates {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("template %s: %w", id, database.ErrNotFound)
}

func (f *fakeTemplateRepo) List(ctx context.Context) ([]*models.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Template(nil), f.templates...), nil
}

func (f *fakeTemplateRepo) ListActiveOn(ctx context.Context, weekday int) ([]*models.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Template
	for _, t := range f.templates {
		if t.ActiveOn(weekday) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.templates {
		if t.ID == id {
			f.templates = append(f.templates[:i], f.templates[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("template %s: %w", id, database.ErrNotFound)
}

// fakeEventRepo is an in-memory EventRepositoryInterface
type fakeEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID][]*models.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID][]*models.Event)}
}

func (f *fakeEventRepo) Append(ctx context.Context, event *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[event.TaskID] = append(f.events[event.TaskID], event)
	return nil
}

func (f *fakeEventRepo) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Event(nil), f.events[taskID]...), nil
}
