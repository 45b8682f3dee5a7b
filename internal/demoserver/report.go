package demoserver

import (
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/analysis"
)

// buildResult fabricates a forensic report. Scores are derived from the file
// name (and the configured seed), so the same upload always produces the
// same report.
func (s *DemoServer) buildResult(filename string, kind analysis.MediaKind, mode analysis.Mode) *analysis.Result {
	h := fnv.New64a()
	h.Write([]byte(filename))
	rng := rand.New(rand.NewSource(int64(h.Sum64()) ^ s.cfg.Seed))

	score := rng.Float64()
	confidence := 0.6 + 0.4*rng.Float64()

	result := &analysis.Result{
		FinalScore:   analysis.Float(score),
		RiskLevel:    riskLevel(score),
		Confidence:   analysis.Float(confidence),
		Report:       reportText(filename, score),
		AnalysisType: analysisType(mode),
	}

	if kind == analysis.MediaImage {
		result.AnalysisBreakdown = imageBreakdown(rng, score)
	} else {
		result.LayerSummaries = videoLayers(rng, score)
	}
	return result
}

func analysisType(mode analysis.Mode) string {
	if mode == analysis.ModeDeep {
		return "comprehensive"
	}
	return "quick"
}

// riskLevel matches the display thresholds the frontend uses.
func riskLevel(score float64) string {
	switch {
	case score < 0.4:
		return "Low"
	case score < 0.65:
		return "Medium"
	default:
		return "High"
	}
}

func reportText(filename string, score float64) string {
	verdict := "shows no strong indicators of manipulation"
	if score >= 0.65 {
		verdict = "shows strong indicators of synthetic generation"
	} else if score >= 0.4 {
		verdict = "shows mixed indicators; manual review recommended"
	}
	return fmt.Sprintf("The submitted file %q %s (manipulation score %.2f).", filename, verdict, score)
}

func imageBreakdown(rng *rand.Rand, score float64) *analysis.ImageBreakdown {
	jitter := func() float64 { return clamp01(score + 0.2*(rng.Float64()-0.5)) }
	nn := jitter()
	return &analysis.ImageBreakdown{
		NeuralNetwork: &analysis.NeuralNetworkSection{
			Score:            analysis.Float(nn),
			Confidence:       analysis.Float(0.7 + 0.3*rng.Float64()),
			NumModels:        analysis.Int(3),
			ModelAgreement:   analysis.Float(0.8 + 0.2*rng.Float64()),
			IndividualScores: []float64{clamp01(nn - 0.05), nn, clamp01(nn + 0.05)},
			ModelNames:       []string{"efficientnet", "xception", "vit"},
		},
		FrequencyDomain: &analysis.FrequencyDomainSection{
			Score:         analysis.Float(jitter()),
			FFTScore:      analysis.Float(jitter()),
			DCTScore:      analysis.Float(jitter()),
			HighFreqScore: analysis.Float(jitter()),
			FFTAnomaly:    analysis.Bool(score > 0.6),
			DCTAnomaly:    analysis.Bool(score > 0.75),
		},
		FacialAnalysis: &analysis.FacialAnalysisSection{
			Score:            analysis.Float(jitter()),
			FaceDetected:     analysis.Bool(true),
			MethodUsed:       "landmark_68",
			SymmetryScore:    analysis.Float(jitter()),
			EyeQualityScore:  analysis.Float(jitter()),
			SkinTextureScore: analysis.Float(jitter()),
			LightingScore:    analysis.Float(jitter()),
			SymmetryAnomaly:  analysis.Bool(score > 0.7),
			EyeAnomaly:       analysis.Bool(score > 0.8),
			TextureAnomaly:   analysis.Bool(score > 0.65),
		},
		MetadataForensics: &analysis.MetadataForensicsSection{
			Score:                   analysis.Float(jitter()),
			ExifPresent:             analysis.Bool(rng.Float64() > 0.3),
			ExifScore:               analysis.Float(jitter()),
			ExifSuspicious:          analysis.Bool(score > 0.7),
			ELAScore:                analysis.Float(jitter()),
			ELAAnomalies:            analysis.Int(rng.Intn(4)),
			CompressionScore:        analysis.Float(jitter()),
			EditingSoftwareDetected: analysis.Bool(score > 0.75),
		},
	}
}

func videoLayers(rng *rand.Rand, score float64) *analysis.VideoLayerSummaries {
	jitter := func() float64 { return clamp01(score + 0.2*(rng.Float64()-0.5)) }
	hasAudio := rng.Float64() > 0.25
	audio := &analysis.AudioLayer{Present: analysis.Bool(hasAudio)}
	if hasAudio {
		audio.Score = analysis.Float(jitter())
		audio.VoiceDeepfake = analysis.Float(jitter())
		audio.LipSync = analysis.Float(jitter())
	}
	return &analysis.VideoLayerSummaries{
		Visual: &analysis.VisualLayer{
			FrameBased: &analysis.FrameBasedSummary{
				EnsembleAvg:  analysis.Float(jitter()),
				EnsembleMax:  analysis.Float(clamp01(score + 0.1)),
				FaceAvg:      analysis.Float(jitter()),
				FrequencyAvg: analysis.Float(jitter()),
			},
			Temporal: &analysis.TemporalSummary{
				Score:            analysis.Float(jitter()),
				IdentityShifts:   analysis.Int(rng.Intn(3)),
				MotionSmoothness: analysis.Float(jitter()),
			},
			Model3D: &analysis.Model3DSummary{Score: analysis.Float(jitter())},
		},
		Audio: audio,
		Physiological: &analysis.PhysiologicalLayer{
			Score:               analysis.Float(jitter()),
			HeartbeatDetected:   analysis.Bool(score < 0.5),
			HeartbeatBPM:        analysis.Float(60 + 40*rng.Float64()),
			NaturalBlinkPattern: analysis.Bool(score < 0.6),
			BlinkCount:          analysis.Int(rng.Intn(20)),
		},
		Physics: &analysis.PhysicsLayer{
			Score:              analysis.Float(jitter()),
			LightingConsistent: analysis.Bool(score < 0.6),
			DepthPlausible:     analysis.Bool(score < 0.7),
		},
		Specialized: &analysis.SpecializedLayer{
			Boundary: &analysis.BoundarySummary{
				Score:                 analysis.Float(jitter()),
				SuspiciousTransitions: analysis.Int(rng.Intn(3)),
				QualityDrops:          analysis.Int(rng.Intn(3)),
			},
			Compression: &analysis.CompressionSummary{
				Score:                 analysis.Float(jitter()),
				Mismatches:            analysis.Int(rng.Intn(5)),
				FaceCompression:       analysis.Float(jitter()),
				BackgroundCompression: analysis.Float(jitter()),
			},
		},
		Metadata: &analysis.MetadataLayer{
			Score:    analysis.Float(jitter()),
			HasAudio: analysis.Bool(hasAudio),
		},
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
