package analysis

// Result is the forensic report returned by the analysis service. Every
// nested field is optional: the backend omits sections it could not compute
// and renderers must degrade gracefully rather than fail.
type Result struct {
	FinalScore   *float64 `json:"final_score,omitempty"`
	RiskLevel    string   `json:"risk_level,omitempty"`
	Confidence   *float64 `json:"confidence,omitempty"`
	Report       string   `json:"report,omitempty"`
	AnalysisType string   `json:"analysis_type,omitempty"`

	// Image path
	AnalysisBreakdown *ImageBreakdown `json:"analysis_breakdown,omitempty"`

	// Video path
	LayerSummaries *VideoLayerSummaries `json:"layer_summaries,omitempty"`
}

// ImageBreakdown groups the per-detector sections of an image report.
type ImageBreakdown struct {
	NeuralNetwork     *NeuralNetworkSection     `json:"neural_network,omitempty"`
	FrequencyDomain   *FrequencyDomainSection   `json:"frequency_domain,omitempty"`
	FacialAnalysis    *FacialAnalysisSection    `json:"facial_analysis,omitempty"`
	MetadataForensics *MetadataForensicsSection `json:"metadata_forensics,omitempty"`
}

type NeuralNetworkSection struct {
	Score            *float64  `json:"score,omitempty"`
	Confidence       *float64  `json:"confidence,omitempty"`
	NumModels        *int      `json:"num_models,omitempty"`
	ModelAgreement   *float64  `json:"model_agreement,omitempty"`
	IndividualScores []float64 `json:"individual_scores,omitempty"`
	ModelNames       []string  `json:"model_names,omitempty"`
}

type FrequencyDomainSection struct {
	Score         *float64 `json:"score,omitempty"`
	FFTScore      *float64 `json:"fft_score,omitempty"`
	DCTScore      *float64 `json:"dct_score,omitempty"`
	HighFreqScore *float64 `json:"high_freq_score,omitempty"`
	FFTAnomaly    *bool    `json:"fft_anomaly,omitempty"`
	DCTAnomaly    *bool    `json:"dct_anomaly,omitempty"`
}

type FacialAnalysisSection struct {
	Score            *float64 `json:"score,omitempty"`
	FaceDetected     *bool    `json:"face_detected,omitempty"`
	MethodUsed       string   `json:"method_used,omitempty"`
	SymmetryScore    *float64 `json:"symmetry_score,omitempty"`
	EyeQualityScore  *float64 `json:"eye_quality_score,omitempty"`
	SkinTextureScore *float64 `json:"skin_texture_score,omitempty"`
	LightingScore    *float64 `json:"lighting_score,omitempty"`
	SymmetryAnomaly  *bool    `json:"symmetry_anomaly,omitempty"`
	EyeAnomaly       *bool    `json:"eye_anomaly,omitempty"`
	TextureAnomaly   *bool    `json:"texture_anomaly,omitempty"`
}

type MetadataForensicsSection struct {
	Score                   *float64       `json:"score,omitempty"`
	ExifPresent             *bool          `json:"exif_present,omitempty"`
	ExifScore               *float64       `json:"exif_score,omitempty"`
	ExifSuspicious          *bool          `json:"exif_suspicious,omitempty"`
	ELAScore                *float64       `json:"ela_score,omitempty"`
	ELAAnomalies            *int           `json:"ela_anomalies,omitempty"`
	CompressionScore        *float64       `json:"compression_score,omitempty"`
	EditingSoftwareDetected *bool          `json:"editing_software_detected,omitempty"`
	MetadataDetails         map[string]any `json:"metadata_details,omitempty"`
}

// VideoLayerSummaries groups the per-layer sections of a video report.
type VideoLayerSummaries struct {
	Visual        *VisualLayer        `json:"visual,omitempty"`
	Audio         *AudioLayer         `json:"audio,omitempty"`
	Physiological *PhysiologicalLayer `json:"physiological,omitempty"`
	Physics       *PhysicsLayer       `json:"physics,omitempty"`
	Specialized   *SpecializedLayer   `json:"specialized,omitempty"`
	Metadata      *MetadataLayer      `json:"metadata,omitempty"`
}

type VisualLayer struct {
	FrameBased *FrameBasedSummary `json:"frame_based,omitempty"`
	Temporal   *TemporalSummary   `json:"temporal,omitempty"`
	Model3D    *Model3DSummary    `json:"3d_model,omitempty"`
}

type FrameBasedSummary struct {
	EnsembleAvg  *float64 `json:"ensemble_avg,omitempty"`
	EnsembleMax  *float64 `json:"ensemble_max,omitempty"`
	FaceAvg      *float64 `json:"face_avg,omitempty"`
	FrequencyAvg *float64 `json:"frequency_avg,omitempty"`
}

type TemporalSummary struct {
	Score            *float64 `json:"score,omitempty"`
	IdentityShifts   *int     `json:"identity_shifts,omitempty"`
	MotionSmoothness *float64 `json:"motion_smoothness,omitempty"`
	Anomalies        []string `json:"anomalies,omitempty"`
}

type Model3DSummary struct {
	Score *float64 `json:"score,omitempty"`
}

type AudioLayer struct {
	Score         *float64 `json:"score,omitempty"`
	VoiceDeepfake *float64 `json:"voice_deepfake,omitempty"`
	LipSync       *float64 `json:"lip_sync,omitempty"`
	Anomalies     []string `json:"anomalies,omitempty"`
	Present       *bool    `json:"present,omitempty"`
}

type PhysiologicalLayer struct {
	Score               *float64 `json:"score,omitempty"`
	HeartbeatDetected   *bool    `json:"heartbeat_detected,omitempty"`
	HeartbeatBPM        *float64 `json:"heartbeat_bpm,omitempty"`
	NaturalBlinkPattern *bool    `json:"natural_blink_pattern,omitempty"`
	BlinkCount          *int     `json:"blink_count,omitempty"`
	Anomalies           []string `json:"anomalies,omitempty"`
}

type PhysicsLayer struct {
	Score              *float64 `json:"score,omitempty"`
	LightingConsistent *bool    `json:"lighting_consistent,omitempty"`
	DepthPlausible     *bool    `json:"depth_plausible,omitempty"`
}

type SpecializedLayer struct {
	Boundary    *BoundarySummary    `json:"boundary,omitempty"`
	Compression *CompressionSummary `json:"compression,omitempty"`
}

type BoundarySummary struct {
	Score                 *float64 `json:"score,omitempty"`
	SuspiciousTransitions *int     `json:"suspicious_transitions,omitempty"`
	QualityDrops          *int     `json:"quality_drops,omitempty"`
}

type CompressionSummary struct {
	Score                 *float64 `json:"score,omitempty"`
	Mismatches            *int     `json:"mismatches,omitempty"`
	FaceCompression       *float64 `json:"face_compression,omitempty"`
	BackgroundCompression *float64 `json:"background_compression,omitempty"`
}

type MetadataLayer struct {
	Score    *float64 `json:"score,omitempty"`
	HasAudio *bool    `json:"has_audio,omitempty"`
}

// Float returns a pointer to v. Convenience for building results in tests
// and in the demo backend.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
