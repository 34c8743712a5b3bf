package extract

// PromptTemplate instructs the external model to return exactly the four
// recognized sections. The transcript text is appended after the template.
const PromptTemplate = `You are extracting durable knowledge from a coding session transcript.

Return EXACTLY these four markdown sections, in this order, and nothing else:

## SUMMARY
2-4 sentences on what this session accomplished.

## CONVENTIONS
Bullet list of coding conventions, patterns, or project practices that were
established or confirmed. Write "None this session." if there are none.

## DECISIONS
Bullet list of technical decisions made and why. Write "None this session."
if there are none.

## GOTCHAS
Bullet list of pitfalls, surprises, or caveats worth remembering. Write
"None this session." if there are none.

Only include knowledge a future session could act on. Do not restate the
transcript, do not add commentary outside the four sections.

Transcript:

`
