package models

// BusinessLocation is a market the business operates in or targets.
// Priority is one of "primary", "secondary", "future".
type BusinessLocation struct {
	Country          string `json:"country"`
	City             string `json:"city"`
	Priority         string `json:"priority"`
	MarketSize       int64  `json:"marketSize,omitempty"`
	CompetitionLevel string `json:"competitionLevel,omitempty"`
}

// TechnologyStack describes one tool the business uses.
// SatisfactionLevel is a 1-5 scale.
type TechnologyStack struct {
	Category          string  `json:"category"`
	ToolName          string  `json:"toolName"`
	Purpose           string  `json:"purpose"`
	SatisfactionLevel int     `json:"satisfactionLevel,omitempty"`
	MonthlySpend      float64 `json:"monthlySpend,omitempty"`
}

// BusinessChallenge is a self-reported obstacle with a priority and the
// areas it impacts.
type BusinessChallenge struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	ImpactArea  []string `json:"impactArea"`
}

// Website captures the business's online presence metrics.
type Website struct {
	URL             string   `json:"url"`
	MonthlyTraffic  int64    `json:"monthlyTraffic,omitempty"`
	ConversionRate  float64  `json:"conversionRate,omitempty"`
	PrimaryChannels []string `json:"primaryChannels,omitempty"`
}

// BusinessProfile is the full profile a user submits for analysis.
type BusinessProfile struct {
	CompanyName        string              `json:"companyName"`
	Industry           string              `json:"industry"`
	MonthlyRevenue     float64             `json:"monthlyRevenue"`
	CompanySize        string              `json:"companySize"`
	TargetMarket       string              `json:"targetMarket"`
	PreferredLocations []BusinessLocation  `json:"preferredLocations"`
	Website            *Website            `json:"website,omitempty"`
	CurrentChallenges  []BusinessChallenge `json:"currentChallenges"`
	TechnologyStack    []TechnologyStack   `json:"technologyStack"`
}
