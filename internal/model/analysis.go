package model

// AnalysisResult is the structured record the external model must emit.
// Field names match the JSON contract embedded in the analysis prompt.
type AnalysisResult struct {
	Summary                   string   `json:"summary"`
	DifficultyScore           int      `json:"difficulty_score"`
	EstimatedStudyTimeMinutes int      `json:"estimated_study_time_minutes"`
	KeyConcepts               []string `json:"key_concepts"`
	LearningAdvice            string   `json:"learning_advice"`
}
