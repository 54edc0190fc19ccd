package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/guiyumin/voicediary/internal/core/ai/prompts"
	"github.com/guiyumin/voicediary/internal/core/ai/transcriber"
	"github.com/guiyumin/voicediary/internal/core/journal"
	"github.com/guiyumin/voicediary/internal/core/mail"
	"github.com/guiyumin/voicediary/internal/core/state"
	"github.com/guiyumin/voicediary/internal/core/store"
)

const dateLayout = "2006-01-02"

// transcript is the output of the transcription stage for one recording.
type transcript struct {
	AudioFile string
	Text      string
}

var errTranscriptMissing = errors.New("transcription produced no text")

func isTranscriptMissing(err error) bool {
	return errors.Is(err, errTranscriptMissing)
}

// stageDownload sweeps the remote folder and pulls new recordings into the
// downloads directory. An empty folder is a normal outcome.
func (p *Pipeline) stageDownload(ctx context.Context) ([]string, error) {
	folder, err := p.files.FindFolder(ctx, p.cfg.Drive.Folder)
	if err != nil {
		return nil, err
	}

	files, err := p.files.ListFiles(ctx, folder)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		p.logger.Info("no new recordings in remote folder")
		return nil, nil
	}

	var downloaded []string
	var failed int
	for _, f := range files {
		localPath, err := p.files.Download(ctx, f, p.cfg.DownloadsDir())
		if err != nil {
			p.logger.Error("failed to download recording", "file", f.Name, "error", err.Error())
			failed++
			continue
		}
		p.logger.Info("downloaded recording", "file", f.Name, "size", f.Size)
		downloaded = append(downloaded, localPath)

		if p.cfg.Drive.DeleteAfterDownload {
			if err := p.files.Delete(ctx, f); err != nil {
				p.logger.Warn("failed to delete remote recording", "file", f.Name, "error", err.Error())
			}
		}
	}

	if len(downloaded) == 0 && failed > 0 {
		return nil, fmt.Errorf("all %d downloads failed", failed)
	}
	return downloaded, nil
}

// stageTranscribe converts each downloaded recording to text. Recordings
// over the API size limit are split with ffmpeg first. Per-file failures
// are counted and skipped; the stage fails only when every file fails.
// A recording counts as successfully processed only once the organize
// stage has folded it into the day's entries, so success accounting lives
// there; this stage only records totals and transcription failures.
func (p *Pipeline) stageTranscribe(ctx context.Context, audioFiles []string, st *state.State) ([]transcript, error) {
	if len(audioFiles) == 0 {
		return nil, nil
	}

	var out []transcript
	var lastErr error
	for _, audioPath := range audioFiles {
		st.Stats.TotalProcessed++

		result, err := p.transcribeOne(ctx, audioPath)
		if err == nil && strings.TrimSpace(result.Text) == "" {
			err = errTranscriptMissing
		}
		if err != nil {
			st.Stats.FailedProcessed++
			lastErr = fmt.Errorf("%s: %w", filepath.Base(audioPath), err)
			p.logger.Error("transcription failed", "file", filepath.Base(audioPath), "error", err.Error())
			continue
		}

		p.logger.Info("transcribed recording",
			"file", filepath.Base(audioPath),
			"language", result.Language,
			"audio_duration", result.Duration.String())

		p.saveRecord(ctx, store.Record{
			Kind:       store.KindTranscript,
			Date:       p.today(),
			SourceFile: filepath.Base(audioPath),
			Content:    result.Text,
		})

		p.archiveAudio(audioPath)
		out = append(out, transcript{AudioFile: audioPath, Text: result.Text})
	}

	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

// transcribeOne handles a single recording, chunking when needed.
func (p *Pipeline) transcribeOne(ctx context.Context, audioPath string) (*transcriber.Result, error) {
	needsChunking, err := p.chunker.NeedsChunking(audioPath)
	if err != nil {
		return nil, err
	}
	if !needsChunking {
		return p.transcriber.Transcribe(ctx, audioPath)
	}

	if !p.chunker.HasFFmpeg() {
		return nil, fmt.Errorf("recording exceeds API size limit and ffmpeg is not installed")
	}

	chunks, err := p.chunker.Split(audioPath)
	if err != nil {
		return nil, err
	}
	defer p.chunker.Cleanup(chunks)

	var results []*transcriber.Result
	for _, chunk := range chunks {
		r, err := p.transcriber.Transcribe(ctx, chunk.FilePath)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", chunk.Index, err)
		}
		results = append(results, r)
	}
	return p.chunker.MergeResults(results)
}

// archiveAudio moves a processed recording out of the downloads directory
// so the next run does not transcribe it again.
func (p *Pipeline) archiveAudio(audioPath string) {
	dest := filepath.Join(p.cfg.ProcessedAudioDir(), filepath.Base(audioPath))
	if err := os.MkdirAll(p.cfg.ProcessedAudioDir(), 0755); err != nil {
		p.logger.Warn("failed to create processed audio dir", "error", err.Error())
		return
	}
	if err := os.Rename(audioPath, dest); err != nil {
		p.logger.Warn("failed to archive recording", "file", filepath.Base(audioPath), "error", err.Error())
	}
}

// stageOrganize cleans each transcript with the text generator and appends
// it to today's ongoing entries file. This is where a recording completes
// processing, so the success and failure counters settle here.
func (p *Pipeline) stageOrganize(ctx context.Context, transcripts []transcript, st *state.State) error {
	if len(transcripts) == 0 {
		return nil
	}

	day := p.now()
	date := day.Format(dateLayout)
	entriesPath := journal.OngoingPath(p.cfg.OutputDir(), day)

	for _, t := range transcripts {
		existing, err := os.ReadFile(entriesPath)
		if err != nil && !os.IsNotExist(err) {
			st.Stats.FailedProcessed++
			return fmt.Errorf("failed to read ongoing entries: %w", err)
		}

		prompt := prompts.Organize(t.Text, string(existing))
		result, err := p.generator.Generate(ctx, prompt)
		if err != nil {
			st.Stats.FailedProcessed++
			return fmt.Errorf("failed to organize %s: %w", filepath.Base(t.AudioFile), err)
		}
		p.logUsage(result.Usage.PromptTokens, result.Usage.CompletionTokens, result.Usage.TotalTokens)

		if err := journal.AppendEntry(entriesPath, result.Text); err != nil {
			st.Stats.FailedProcessed++
			return err
		}
		p.logger.Info("appended diary entry", "file", filepath.Base(entriesPath))

		st.Stats.SuccessfulProcessed++
		now := p.now().UTC()
		st.Stats.LastProcessedTime = &now

		p.saveRecord(ctx, store.Record{
			Kind:       store.KindOrganized,
			Date:       date,
			SourceFile: filepath.Base(t.AudioFile),
			Content:    result.Text,
		})
	}
	return nil
}

// stageSummarize finds the oldest complete day of entries, turns it into a
// journal summary, and removes the consumed entries file. With fewer than
// two ongoing files there is no complete day yet and the stage is a no-op.
func (p *Pipeline) stageSummarize(ctx context.Context) (summaryPath, date string, err error) {
	sel, err := journal.FindOldest(p.cfg.OutputDir(), p.logger)
	if err != nil {
		return "", "", err
	}
	if !sel.Selected() {
		p.logger.Info("no complete day to summarize", "status", sel.Status, "message", sel.Message)
		return "", "", nil
	}

	content, err := os.ReadFile(sel.Path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read entries file: %w", err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return "", "", fmt.Errorf("entries file %s is empty", filepath.Base(sel.Path))
	}

	result, err := p.generator.Generate(ctx, prompts.Summarize(string(content)))
	if err != nil {
		return "", "", fmt.Errorf("failed to summarize %s: %w", filepath.Base(sel.Path), err)
	}
	p.logUsage(result.Usage.PromptTokens, result.Usage.CompletionTokens, result.Usage.TotalTokens)

	date = sel.Date.Format(dateLayout)
	outPath := journal.SummaryPath(p.cfg.SummariesDir(), sel.Date)
	if err := journal.WriteSummary(outPath, result.Text); err != nil {
		return "", "", err
	}
	p.logger.Info("wrote daily summary", "date", date, "file", filepath.Base(outPath))

	p.saveRecord(ctx, store.Record{
		Kind:       store.KindSummary,
		Date:       date,
		SourceFile: filepath.Base(sel.Path),
		Content:    result.Text,
	})

	// The summary now owns this day; the raw entries file is done.
	if err := os.Remove(sel.Path); err != nil {
		p.logger.Warn("failed to remove summarized entries file", "file", filepath.Base(sel.Path), "error", err.Error())
	}

	return outPath, date, nil
}

// stageEmail delivers the summary. Skipped when email is disabled.
func (p *Pipeline) stageEmail(summaryPath, date string) error {
	if p.mailer == nil || !p.cfg.Email.Enabled {
		p.logger.Info("email disabled, skipping delivery")
		return nil
	}

	body, err := os.ReadFile(summaryPath)
	if err != nil {
		return fmt.Errorf("failed to read summary: %w", err)
	}

	subject := p.cfg.Email.Subject
	if subject == "" {
		subject = "Diary summary for " + date
	}

	msg := mail.Message{
		To:             p.cfg.Email.To,
		Subject:        subject,
		Body:           string(body),
		AttachmentPath: summaryPath,
	}
	if err := p.mailer.Send(msg); err != nil {
		return err
	}
	p.logger.Info("sent summary email", "date", date, "to", p.cfg.Email.To)
	return nil
}

func (p *Pipeline) today() string {
	return p.now().Format(dateLayout)
}

func (p *Pipeline) logUsage(promptTokens, completionTokens, totalTokens int) {
	if p.usage == nil || p.generator == nil {
		return
	}
	p.usage.Record(p.generator.Name(), promptTokens, completionTokens, totalTokens)
}

// saveRecord writes history when a record store is configured. History is
// advisory; a store failure never fails the stage.
func (p *Pipeline) saveRecord(ctx context.Context, rec store.Record) {
	if p.records == nil {
		return
	}
	if _, err := p.records.Save(ctx, rec); err != nil {
		p.logger.Warn("failed to save history record", "kind", rec.Kind, "error", err.Error())
	}
}
