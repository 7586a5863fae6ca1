package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	// Parsing Tools
	FormFieldsDescription = `Detect every fillable field in a flat PDF form that has no interactive widgets.

**When to use:** Need the complete inventory of text fields and radio groups a scanned-style form contains, with labels, generated questions and page positions.

**Why it's useful:** Works on forms that were printed and re-exported without AcroForm data, inferring structure purely from word positions and bullet glyphs.

**Examples:**
• Inventory a bank form: "List all fields in account-opening.pdf before building an intake flow"
• Debug detection: "Show what the parser finds on page 2 of the updated template"
• Schema export: "Get the field list of the onboarding form for the CRM mapping"

**Common workflows:**
1. Template Onboarding: form_fields → review labels → adjust the source document if needed
2. Detection Debugging: form_fields → compare against the printed form → file template issues
3. Integration: form_fields → map field ids to external schema → drive form_start/form_answer

**Best practices:** Run this once per new template revision; field ids change between parses, so map by label and page rather than id.`

	FormPeekDescription = `Preview the first questions of a form without creating a session.

**When to use:** Want a quick look at what the fill conversation will ask, or need to confirm a template parses before starting real sessions.

**Why it's useful:** Read-only and stateless, so it is safe to call repeatedly while tuning a template.

**Examples:**
• Sanity check: "Peek at the first 5 questions of the new template revision"
• UX copy review: "Show the generated French questions so the team can proofread them"

**Common workflows:**
1. Template Validation: form_peek → verify questions read well → form_start
2. Conversation Design: form_peek → adjust labels in the source document → re-peek

**Best practices:** The default count is 5; raise it to review a whole section at once.`

	// Fill Tools
	FormStartDescription = `Start a fill session over a form template and get the first question.

**When to use:** Beginning a question-by-question fill conversation with an end user.

**Why it's useful:** Parses the template, snapshots it into a session and hands back a stable session id plus the first question, so each later answer only needs the id.

**Examples:**
• Account opening: "Start a session on the account-opening template for this customer"
• Custom template: "Start a session on /forms/kyc-update.pdf"

**Common workflows:**
1. Conversational Fill: form_start → form_answer per question → final document on the last answer
2. Progress Monitoring: form_start → form_answer ... → form_document to preview at any point

**Best practices:** Keep the returned session_id; a template with no detectable fields is rejected up front.`

	FormAnswerDescription = `Submit the answer to the current question and receive the next one.

**When to use:** For every user answer during a fill session started with form_start.

**Why it's useful:** Validates the answer against field-specific French rules (dates, phone, postal code, e-mail, tax number, names), writes it onto the document at the detected position and advances the conversation in one call.

**Examples:**
• Text answer: "session_id=..., value=12/04/1990 for the birth date question"
• Radio by index: "session_id=..., option_index=0 to pick the first option"
• Radio by label: "session_id=..., value=Oui"

**Common workflows:**
1. Happy Path: answer each question → last answer returns the finished document (base64)
2. Validation Errors: failed answers leave the session unchanged → re-ask with the returned message
3. Radio Selection: pass option_index (0-based) or the option label; Oui/Non accept yes/no aliases

**Best practices:** Calling again after the last question is safe and returns the finished document unchanged.`

	FormDocumentDescription = `Download the session's current document, filled up to the latest answer.

**When to use:** Need a preview mid-session, or want to re-fetch the finished form after completion.

**Why it's useful:** Returns the accumulated PDF bytes at any point without advancing or mutating the session.

**Examples:**
• Mid-session preview: "Show the customer what the form looks like so far"
• Re-download: "Fetch the completed form again after the session finished"

**Common workflows:**
1. Progress Preview: form_answer ... → form_document → render to the user → continue answering
2. Recovery: connection lost after completion → form_document with the stored session_id

**Best practices:** The response is base64-encoded PDF bytes; decode before saving.`

	// Usage guidance shown by clients that surface server metadata
	UsageGuidance = `Typical flow: form_fields or form_peek to inspect a template, form_start to open a session, form_answer per question until finished, form_document to fetch the filled PDF. Templates must be flat (non-interactive) PDFs; detection is tuned for French bank forms.`
)
