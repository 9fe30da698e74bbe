package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"mediagen/internal/domain"
	"mediagen/internal/jobstore"
	"mediagen/internal/openai"
	"mediagen/internal/queue"
	"mediagen/internal/settings"
)

// Generator produces raw image bytes for a composed prompt.
type Generator interface {
	GenerateImage(ctx context.Context, prompt openai.ImagePrompt, model, quality, size string) ([]byte, error)
}

// ArtifactStore persists image bytes and returns a durable identifier.
type ArtifactStore interface {
	Save(ctx context.Context, data []byte) (int64, error)
}

// SubmitRequest is a validated image generation request.
type SubmitRequest struct {
	Prompt      string
	PostTitle   string
	PostContent string
}

// Task is the payload handed to the background execution facility.
type Task struct {
	JobID       string `json:"job_id"`
	Prompt      string `json:"prompt"`
	PostTitle   string `json:"post_title"`
	PostContent string `json:"post_content"`
	Model       string `json:"model"`
	Quality     string `json:"quality"`
	Size        string `json:"size"`
}

// Orchestrator owns the job state machine: it creates jobs, dispatches
// background execution and is the only writer of job records.
type Orchestrator struct {
	store     jobstore.Store
	queue     queue.Dispatcher
	generator Generator
	artifacts ArtifactStore
	logger    zerolog.Logger
	ttl       time.Duration
}

type Options struct {
	Store     jobstore.Store
	Queue     queue.Dispatcher // nil: execute synchronously in Submit
	Generator Generator
	Artifacts ArtifactStore
	Logger    zerolog.Logger
	TTL       time.Duration
}

func NewOrchestrator(opts Options) *Orchestrator {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = jobstore.DefaultTTL
	}
	return &Orchestrator{
		store:     opts.Store,
		queue:     opts.Queue,
		generator: opts.Generator,
		artifacts: opts.Artifacts,
		logger:    opts.Logger,
		ttl:       ttl,
	}
}

// Submit creates a job and hands it to the background queue, returning
// the job id as soon as the pending record exists. Without a queue the
// job runs inline before Submit returns; the caller pays the latency
// but observes identical behavior. No job record is written when the
// API credential is missing.
func (o *Orchestrator) Submit(ctx context.Context, s *settings.Settings, req SubmitRequest) (string, error) {
	if strings.TrimSpace(s.APIKey) == "" {
		return "", domain.ErrMissingAPIKey
	}

	jobID := domain.NewJobID()
	if err := o.store.Put(ctx, jobID, domain.JobState{Status: domain.JobStatusPending}, o.ttl); err != nil {
		return "", err
	}

	task := Task{
		JobID:       jobID,
		Prompt:      req.Prompt,
		PostTitle:   req.PostTitle,
		PostContent: req.PostContent,
		Model:       s.ImageModel,
		Quality:     s.ImageQuality,
		Size:        s.ImageSize,
	}

	if o.queue != nil {
		payload, err := json.Marshal(task)
		if err == nil {
			if err = o.queue.Enqueue(ctx, queue.ActionGenerateImage, payload); err == nil {
				return jobID, nil
			}
		}
		o.logger.Warn().Err(err).Str("job_id", jobID).Msg("jobs: dispatch failed, running inline")
	}

	o.Execute(ctx, task)
	return jobID, nil
}

// Execute runs one generation attempt. Errors never escape: every
// failure is recorded as a terminal job state, since the background
// dispatcher has no caller to report to. A redelivered task whose job
// already reached a terminal state is skipped, so a completed job is
// never pushed back to processing and no second artifact is created.
func (o *Orchestrator) Execute(ctx context.Context, task Task) {
	if state, err := o.store.Get(ctx, task.JobID); err == nil && state.Status.Terminal() {
		o.logger.Info().Str("job_id", task.JobID).Str("status", string(state.Status)).Msg("jobs: already terminal, skipping redelivery")
		return
	}

	o.put(ctx, task.JobID, domain.JobState{Status: domain.JobStatusProcessing})

	prompt := openai.ImagePrompt{
		Prompt:      task.Prompt,
		PostTitle:   task.PostTitle,
		PostContent: task.PostContent,
	}
	data, err := o.generator.GenerateImage(ctx, prompt, task.Model, task.Quality, task.Size)
	if err != nil {
		o.fail(ctx, task.JobID, err)
		return
	}
	if err := validateImage(data); err != nil {
		o.fail(ctx, task.JobID, err)
		return
	}

	attachmentID, err := o.artifacts.Save(ctx, data)
	if err != nil {
		o.fail(ctx, task.JobID, err)
		return
	}

	o.put(ctx, task.JobID, domain.JobState{Status: domain.JobStatusCompleted, AttachmentID: attachmentID})
	o.logger.Info().Str("job_id", task.JobID).Int64("attachment_id", attachmentID).Msg("jobs: completed")
}

// Status looks up the current state of a job.
func (o *Orchestrator) Status(ctx context.Context, jobID string) (domain.JobState, error) {
	return o.store.Get(ctx, jobID)
}

func (o *Orchestrator) fail(ctx context.Context, jobID string, err error) {
	o.logger.Error().Err(err).Str("job_id", jobID).Msg("jobs: failed")
	o.put(ctx, jobID, domain.JobState{Status: domain.JobStatusFailed, Error: err.Error()})
}

func (o *Orchestrator) put(ctx context.Context, jobID string, state domain.JobState) {
	if err := o.store.Put(ctx, jobID, state, o.ttl); err != nil {
		o.logger.Error().Err(err).Str("job_id", jobID).Str("status", string(state.Status)).Msg("jobs: state write failed")
	}
}

func validateImage(data []byte) error {
	if len(data) == 0 {
		return errors.New("failed to decode image data")
	}
	if !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return errors.New("failed to decode image data")
	}
	return nil
}
