package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/Hiltonrealtorsnm/frontend/internal/collection"
	"github.com/Hiltonrealtorsnm/frontend/internal/export"
	"github.com/Hiltonrealtorsnm/frontend/internal/models"
	"github.com/Hiltonrealtorsnm/frontend/internal/services"
)

// TaskType defines the type of a background task.
const (
	TypeExportCollection = "export:collection"
)

const (
	exportQueue   = "exports"
	exportTimeout = 5 * time.Minute
	exportRetries = 3
)

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	return asynq.NewClient(redisOpt(rdb))
}

func redisOpt(rdb *redis.Client) asynq.RedisClientOpt {
	opts := rdb.Options()
	return asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}
}

// ExportTaskPayload asks for one collection query to be exported.
type ExportTaskPayload struct {
	Resource   services.Resource     `json:"resource"`
	PropertyID int64                 `json:"propertyId,omitempty"`
	Criteria   models.FilterCriteria `json:"criteria"`
	Sort       models.SortSpec       `json:"sort"`
	Page       int                   `json:"page"`
	Size       int                   `json:"size"`
	Filename   string                `json:"filename,omitempty"`
}

func (p ExportTaskPayload) options() services.ViewOptions {
	return services.ViewOptions{Resource: p.Resource, PropertyID: p.PropertyID}
}

func (p ExportTaskPayload) query() collection.Query {
	return collection.Query{Criteria: p.Criteria, Sort: p.Sort, Page: p.Page, Size: p.Size}
}

// NewExportTask builds an export task. The resource is checked up front so a
// bad request never reaches the queue.
func NewExportTask(payload ExportTaskPayload) (*asynq.Task, error) {
	if !payload.Resource.Valid() {
		return nil, fmt.Errorf("%w: %q", services.ErrUnknownResource, payload.Resource)
	}
	if payload.Filename == "" {
		payload.Filename = services.DefaultFilename(payload.options())
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export payload: %w", err)
	}
	return asynq.NewTask(TypeExportCollection, b,
		asynq.Queue(exportQueue),
		asynq.MaxRetry(exportRetries),
		asynq.Timeout(exportTimeout),
	), nil
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EnqueueExport queues an export and returns the task ID.
func EnqueueExport(ctx context.Context, client Enqueuer, payload ExportTaskPayload) (string, error) {
	task, err := NewExportTask(payload)
	if err != nil {
		return "", err
	}
	info, err := client.EnqueueContext(ctx, task)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue export task: %w", err)
	}
	log.Printf("Enqueued export task %s for %s", info.ID, payload.Resource)
	return info.ID, nil
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of tasks.
type TaskProcessor struct {
	catalog services.ICatalogService
}

func NewTaskProcessor(catalog services.ICatalogService) *TaskProcessor {
	return &TaskProcessor{catalog: catalog}
}

// NewServer configures an Asynq server and the handler mux for it.
func NewServer(rdb *redis.Client, processor *TaskProcessor, concurrency int) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		redisOpt(rdb),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				exportQueue: 5,
				"default":   1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeExportCollection, processor.HandleExportTask)
	log.Println("Registered export task handlers.")
	return srv, mux
}

// --- Task Handlers ---

// HandleExportTask loads the requested collection, renders it as CSV and
// saves the file. Bad payloads and empty collections are not retried.
func (p *TaskProcessor) HandleExportTask(ctx context.Context, t *asynq.Task) error {
	var payload ExportTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal export task payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Filename == "" {
		payload.Filename = services.DefaultFilename(payload.options())
	}

	log.Printf("Processing export task: Resource=%s, Page=%d, Size=%d", payload.Resource, payload.Page, payload.Size)

	d, err := p.catalog.ExportQuery(ctx, payload.options(), payload.query(), payload.Filename)
	switch {
	case errors.Is(err, export.ErrNothingToExport):
		log.Printf("Export task for %s produced no rows", payload.Resource)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	case errors.Is(err, services.ErrUnknownResource), errors.Is(err, collection.ErrFilterUnsupported):
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	case err != nil:
		return fmt.Errorf("export of %s failed: %w", payload.Resource, err)
	}

	log.Printf("Export task finished: %s (%d bytes) at %s", d.Filename, d.Size, d.Location)
	return nil
}
