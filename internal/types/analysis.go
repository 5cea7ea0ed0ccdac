package types

// PromptPair is the system-style instructions plus the user input sent to a provider.
type PromptPair struct {
	Instructions string `json:"instructions"`
	Input        string `json:"input"`
}

// AnalysisResult is the validated model answer for one job.
type AnalysisResult struct {
	ShouldApply    bool     `json:"shouldApply"`
	FitScore       float64  `json:"fitScore"` // 0-100
	KeyReasons     []string `json:"keyReasons"`
	Risks          []string `json:"risks"`
	QuestionsToAsk []string `json:"questionsToAsk"`
	ProposalShort  string   `json:"proposalShort"`
	ProposalFull   string   `json:"proposalFull"`
	BidSuggestion  string   `json:"bidSuggestion,omitempty"`
}
