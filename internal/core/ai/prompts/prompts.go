// Package prompts holds the prompt templates sent to the text generator.
package prompts

import "strings"

const organizeTemplate = `You are organizing a personal voice diary. Below is a new transcribed diary entry, followed by the entries already recorded for the same day.

Clean up the new entry: fix transcription artifacts, punctuation, and obvious mis-hearings, but keep the author's voice, wording, and all factual content. Do not summarize, do not add commentary, and do not merge it with the previous entries. Return only the cleaned entry text.

New diary entry:
{{diary_entry}}

Entries already recorded today:
{{ongoing_entries}}`

const summarizeTemplate = `You are summarizing one day of a personal voice diary. Below are all the entries recorded that day, separated by divider lines.

Write a coherent journal entry for the day in the author's voice: what happened, in order, with the thoughts and feelings they recorded. Keep every concrete fact (names, places, decisions, to-dos). Do not invent anything and do not address the reader. Return only the journal text.

Diary entries for the day:
{{journal_content}}`

// Organize builds the prompt that cleans a fresh transcript against the
// entries already recorded for the day.
func Organize(transcript, ongoingEntries string) string {
	if strings.TrimSpace(ongoingEntries) == "" {
		ongoingEntries = "No previous entries yet."
	}
	p := strings.ReplaceAll(organizeTemplate, "{{diary_entry}}", transcript)
	return strings.ReplaceAll(p, "{{ongoing_entries}}", ongoingEntries)
}

// Summarize builds the prompt that turns one day of entries into a journal.
func Summarize(journalContent string) string {
	return strings.ReplaceAll(summarizeTemplate, "{{journal_content}}", journalContent)
}
