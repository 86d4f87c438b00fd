package chunker

// charsPerToken is the calibrated character-to-token ratio used for all
// batching decisions. An estimate, not an exact tokenizer.
const charsPerToken = 4

// EstimateTokens estimates the token count of text using a fixed
// character-to-token ratio. Non-empty text estimates to at least 1.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + charsPerToken - 1) / charsPerToken
}

// budgetChars converts a token budget into a character allowance.
func budgetChars(tokenBudget int) int {
	return tokenBudget * charsPerToken
}
