package types

// Profile is the user-authored mindset the analysis is aligned with.
// List order is significant: lists are rendered as ordered bullets.
type Profile struct {
	ProfileName        string   `json:"profileName" validate:"required"`
	Experience         string   `json:"experience,omitempty"`
	Location           string   `json:"location,omitempty"`
	RoleTitle          string   `json:"roleTitle" validate:"required"`
	CoreSkills         []string `json:"coreSkills"`
	SecondarySkills    []string `json:"secondarySkills"`
	NoGoSkills         []string `json:"noGoSkills"`
	ProposalStyleRules []string `json:"proposalStyleRules"`
	RedFlags           []string `json:"redFlags"`
}
