// Package pipeline runs the diary processing sequence: fetch new
// recordings, transcribe them, fold them into the day's ongoing entries,
// then summarize and email the oldest complete day.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/guiyumin/voicediary/internal/core/ai/generator"
	"github.com/guiyumin/voicediary/internal/core/ai/transcriber"
	"github.com/guiyumin/voicediary/internal/core/config"
	"github.com/guiyumin/voicediary/internal/core/drive"
	"github.com/guiyumin/voicediary/internal/core/logging"
	"github.com/guiyumin/voicediary/internal/core/mail"
	"github.com/guiyumin/voicediary/internal/core/state"
	"github.com/guiyumin/voicediary/internal/core/store"
)

// Pipeline wires the collaborators for one processing run.
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger
	usage  *logging.UsageLogger

	states      *state.Store
	files       drive.FileStore
	transcriber transcriber.Transcriber
	generator   generator.TextGenerator
	mailer      mail.Mailer
	records     store.RecordStore

	chunker *transcriber.Chunker
	now     func() time.Time
}

// Options carries the collaborators for New. Mailer and Records may be nil
// when email or history tracking is disabled.
type Options struct {
	Config      *config.Config
	Logger      *slog.Logger
	Usage       *logging.UsageLogger
	States      *state.Store
	Files       drive.FileStore
	Transcriber transcriber.Transcriber
	Generator   generator.TextGenerator
	Mailer      mail.Mailer
	Records     store.RecordStore
}

// New assembles a pipeline.
func New(opts Options) *Pipeline {
	return &Pipeline{
		cfg:         opts.Config,
		logger:      opts.Logger,
		usage:       opts.Usage,
		states:      opts.States,
		files:       opts.Files,
		transcriber: opts.Transcriber,
		generator:   opts.Generator,
		mailer:      opts.Mailer,
		records:     opts.Records,
		chunker:     transcriber.NewChunker(),
		now:         time.Now,
	}
}

// Run executes one full pass. It returns true when the run ended in
// success or degraded (core stages fine, summary delivery failed).
//
// The durable state file is updated exactly once, at the end of the run.
// Stage failures are absorbed into the run status; a failure to write the
// state file is the one error Run returns, because without the file the
// next run cannot know this one happened.
func (p *Pipeline) Run(ctx context.Context) (bool, error) {
	st := p.states.Load()
	st.TotalRuns++
	st.LastRunTime = p.now().UTC()

	status, failedStep, runErr := p.runStages(ctx, st)

	st.LastRunStatus = status
	if runErr != nil {
		st.LastFailedStep = failedStep
		st.LastError = runErr.Error()
	} else {
		st.LastFailedStep = ""
		st.LastError = ""
	}
	if status == state.StatusSuccess || status == state.StatusDegraded {
		st.SuccessfulRuns++
	}

	if err := p.states.Save(st); err != nil {
		p.logger.Error("failed to save pipeline state", "error", err.Error())
		return false, fmt.Errorf("failed to save pipeline state: %w", err)
	}

	p.logger.Info("run finished", "status", status, "total_runs", st.TotalRuns, "successful_runs", st.SuccessfulRuns)
	return status == state.StatusSuccess || status == state.StatusDegraded, nil
}

// runStages drives the five stages and maps their outcomes onto a run
// status. Download, transcription, and organization are hard dependencies:
// a failure there aborts the run. Summarization and email are soft: the
// day's entries are already safe on disk, so their failure only degrades
// the run. A panic that escapes the stage machinery itself yields "error".
func (p *Pipeline) runStages(ctx context.Context, st *state.State) (status, failedStep string, runErr error) {
	defer func() {
		if r := recover(); r != nil {
			status = state.StatusError
			runErr = fmt.Errorf("pipeline panicked: %v\n%s", r, debug.Stack())
			p.logger.Error("pipeline panicked", "panic", fmt.Sprint(r))
		}
	}()

	timeouts := p.cfg.Scheduler

	var downloaded []string
	res := runStage(ctx, p.logger, state.StepDownload, timeouts.DownloadTimeout.Std(), func(ctx context.Context) error {
		var err error
		downloaded, err = p.stageDownload(ctx)
		return err
	})
	if res.Failed() {
		return failureStatus(res), state.StepDownload, res.Err
	}

	var transcripts []transcript
	res = runStage(ctx, p.logger, state.StepTranscription, timeouts.TranscribeTimeout.Std(), func(ctx context.Context) error {
		var err error
		transcripts, err = p.stageTranscribe(ctx, downloaded, st)
		return err
	})
	if res.Failed() {
		step := state.StepTranscription
		if isTranscriptMissing(res.Err) {
			step = state.StepTranscriptMissing
		}
		return failureStatus(res), step, res.Err
	}

	res = runStage(ctx, p.logger, state.StepOrganize, timeouts.OrganizeTimeout.Std(), func(ctx context.Context) error {
		return p.stageOrganize(ctx, transcripts, st)
	})
	if res.Failed() {
		return failureStatus(res), state.StepOrganize, res.Err
	}

	var summaryPath string
	var summaryDate string
	res = runStage(ctx, p.logger, state.StepOngoingEntries, timeouts.SummarizeTimeout.Std(), func(ctx context.Context) error {
		var err error
		summaryPath, summaryDate, err = p.stageSummarize(ctx)
		return err
	})
	if res.Failed() {
		return state.StatusDegraded, state.StepOngoingEntries, res.Err
	}

	if summaryPath == "" {
		// Not enough complete days yet; nothing to deliver.
		return state.StatusSuccess, "", nil
	}

	res = runStage(ctx, p.logger, state.StepEmail, timeouts.EmailTimeout.Std(), func(ctx context.Context) error {
		return p.stageEmail(summaryPath, summaryDate)
	})
	if res.Failed() {
		return state.StatusDegraded, state.StepEmail, res.Err
	}

	return state.StatusSuccess, "", nil
}

// failureStatus distinguishes an expected stage failure from a panic.
func failureStatus(res StageResult) string {
	if res.Panicked {
		return state.StatusError
	}
	return state.StatusFailed
}
