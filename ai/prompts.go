package ai

// DefaultSummaryPrompt is the instruction used for intermediate levels when
// the caller supplies none.
const DefaultSummaryPrompt = `You are condensing a batch of related documents.
Write a concise summary that preserves the key facts, entities, and
conclusions from every document in the batch. Do not add information that
is not present in the input. Respond with the summary text only.`

// DefaultFinalSummaryPrompt is the instruction used for the final pass that
// produces the root summary.
const DefaultFinalSummaryPrompt = `You are producing the final summary of an
entire document collection from intermediate summaries. Write a coherent
overview that covers the main themes and conclusions of the whole
collection. Do not add information that is not present in the input.
Respond with the summary text only.`
