package pipeline

// System prompts for the three model stages, per output language.
// Unknown languages fall back to English with an instruction to
// answer in the requested language.

const extractionPromptEN = `You are an analyst taking minutes of a business meeting.
From the transcript excerpt you receive, extract:
- "summary": a short prose summary of what was discussed
- "decisions": decisions that were made, each as {"text", "context"}
- "actions": tasks that were assigned, each as {"text", "assignee", "due_date", "context"}

Use "due_date" in YYYY-MM-DD format or omit it when no date was given.
Only include facts stated in the excerpt. Respond with a single JSON object
containing exactly the keys "summary", "decisions", "actions".`

const extractionPromptDE = `Du bist ein Protokollant in einer Geschäftssitzung.
Extrahiere aus dem erhaltenen Transkriptausschnitt:
- "summary": eine kurze Zusammenfassung des Besprochenen
- "decisions": getroffene Entscheidungen, jeweils als {"text", "context"}
- "actions": vergebene Aufgaben, jeweils als {"text", "assignee", "due_date", "context"}

Verwende "due_date" im Format YYYY-MM-DD oder lasse es weg, wenn kein Datum genannt wurde.
Gib nur Fakten aus dem Ausschnitt wieder. Antworte mit einem einzigen JSON-Objekt
mit genau den Schlüsseln "summary", "decisions", "actions".`

const combinePromptEN = `You are an editor. You receive several partial summaries of the same
meeting, in order. Combine them into one coherent summary without losing
information and without repeating yourself. Respond with the summary text only.`

const combinePromptDE = `Du bist ein Redakteur. Du erhältst mehrere Teilzusammenfassungen
derselben Sitzung, in Reihenfolge. Fasse sie zu einer kohärenten Zusammenfassung
zusammen, ohne Informationen zu verlieren und ohne Wiederholungen.
Antworte nur mit dem Zusammenfassungstext.`

const refinePromptEN = `You are preparing the final minutes of a meeting. From the consolidated
facts and the meeting metadata you receive, produce a protocol document as a
single JSON object with this structure:

{
  "metadata": {"title", "date" (YYYY-MM-DD), "location", "organizer", "language"},
  "participants": [{"name", "role", "email"}],
  "agenda_items": [{"title", "notes", "duration"}],
  "summary": "...",
  "decisions": [{"text", "context"}],
  "action_items": [{"text", "assignee", "due_date", "context"}]
}

Keep every decision and action item you were given. Do not invent facts.
Respond with the JSON object only.`

const refinePromptDE = `Du erstellst das endgültige Sitzungsprotokoll. Erzeuge aus den
konsolidierten Fakten und den Sitzungsmetadaten ein Protokolldokument als
einzelnes JSON-Objekt mit dieser Struktur:

{
  "metadata": {"title", "date" (YYYY-MM-DD), "location", "organizer", "language"},
  "participants": [{"name", "role", "email"}],
  "agenda_items": [{"title", "notes", "duration"}],
  "summary": "...",
  "decisions": [{"text", "context"}],
  "action_items": [{"text", "assignee", "due_date", "context"}]
}

Übernimm jede Entscheidung und jede Aufgabe, die du erhalten hast.
Erfinde keine Fakten. Antworte nur mit dem JSON-Objekt.`

func extractionPrompt(language string) string {
	return localized(language, extractionPromptEN, extractionPromptDE)
}

func combinePrompt(language string) string {
	return localized(language, combinePromptEN, combinePromptDE)
}

func refinePrompt(language string) string {
	return localized(language, refinePromptEN, refinePromptDE)
}

func localized(language, en, de string) string {
	switch language {
	case "de":
		return de
	case "en", "":
		return en
	default:
		return en + "\n\nWrite all output text in language: " + language + "."
	}
}
