package summarizer

// mapInstructions guides per-chunk summarization during the map phase.
// Each chunk is a raw slice of a flattened transcript and may start or
// end mid-sentence.
const mapInstructions = `You are summarizing one portion of a parliamentary transcript or government gazette. The portion may begin or end mid-sentence.

Produce a concise summary of this portion covering:
- The matters debated or notices published
- Which speakers took which positions, with their affiliations where given
- Any motions, amendments, divisions, or procedural outcomes

Write plain prose paragraphs. Do not add headings, preambles, or commentary about the portion boundaries.`

// reduceInstructions guides the combination of per-chunk summaries into
// the final artifact during the reduce phase.
const reduceInstructions = `You are combining partial summaries of consecutive portions of a single parliamentary transcript or gazette into one coherent summary.

The partial summaries are given in document order. Merge them into a single summary that:
- Reads as one document, not a list of parts
- Preserves the order of proceedings
- Deduplicates speakers and matters that span portion boundaries
- Keeps motions and outcomes attributed to the correct speakers

Write plain prose with short paragraphs. Do not mention that the input was split into portions.`
