// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "manuscript-engine/0.1 (you@example.org)"). NCBI asks clients
	// to identify themselves with a contact address.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// PubMedConfig holds settings for the PubMed metadata stage.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is an optional NCBI API key for the higher rate limit.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Email is the contact address NCBI asks tools to send.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// MaxResults is the maximum number of ESearch hits to fetch (default 30).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// RecentYears biases suggestion queries toward the last N years (default 5).
	RecentYears int `json:"recent_years" yaml:"recent_years"`
}

// AIConfig holds shared settings for stages that call a text-generation API.
type AIConfig struct {
	// Model is the model identifier passed to the generator.
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the generation API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// DraftingConfig holds settings for the section-drafting stage.
type DraftingConfig struct {
	AIConfig `yaml:",inline"`

	// DraftsFile is the YAML file holding section drafts.
	DraftsFile string `json:"drafts_file" yaml:"drafts_file"`
}

// PlanConfig holds settings for the citation plan store.
type PlanConfig struct {
	// PlanDir is the base directory for the plan (contains plan.db and
	// plan.yaml exports).
	PlanDir string `json:"plan_dir" yaml:"plan_dir"`

	// MaxCount is the journal's reference cap recorded on the plan.
	MaxCount int `json:"max_count" yaml:"max_count"`
}

// SimilarityConfig holds the duplicate-text detector's policy knobs. The
// threshold is a tuned heuristic, not an accuracy guarantee.
type SimilarityConfig struct {
	// ShingleSize is the token n-gram length k (default 5).
	ShingleSize int `json:"shingle_size" yaml:"shingle_size"`

	// Window is the winnowing window size (default 4).
	Window int `json:"window" yaml:"window"`

	// Threshold is the minimum Jaccard score reported (default 0.12).
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	PubMed     PubMedConfig     `json:"pubmed" yaml:"pubmed"`
	Drafting   DraftingConfig   `json:"drafting" yaml:"drafting"`
	Plan       PlanConfig       `json:"plan" yaml:"plan"`
	Similarity SimilarityConfig `json:"similarity" yaml:"similarity"`
}
