// Package report renders a forensic analysis report for display. Every
// section of the result schema is optional: missing data drops the section,
// it never fails the render.
package report

import (
	"fmt"
	"strings"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/analysis"
	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/app"
)

// Render produces a plain-text report from the final result and the
// session's accumulated progress log. Either argument may be empty or nil.
func Render(result *analysis.Result, log []app.ProgressEvent) string {
	var b strings.Builder

	b.WriteString("=== Media Authenticity Report ===\n")

	if result == nil {
		b.WriteString("No analysis result available.\n")
		writeProgressLog(&b, log)
		return b.String()
	}

	if result.FinalScore != nil {
		fmt.Fprintf(&b, "Manipulation score: %.0f%%\n", *result.FinalScore*100)
	}
	if result.RiskLevel != "" {
		fmt.Fprintf(&b, "Risk level: %s\n", result.RiskLevel)
	}
	if result.Confidence != nil {
		fmt.Fprintf(&b, "Confidence: %.0f%%\n", *result.Confidence*100)
	}
	if result.AnalysisType != "" {
		fmt.Fprintf(&b, "Analysis type: %s\n", result.AnalysisType)
	}
	if result.Report != "" {
		b.WriteString("\n")
		b.WriteString(result.Report)
		b.WriteString("\n")
	}

	if result.AnalysisBreakdown != nil {
		writeImageBreakdown(&b, result.AnalysisBreakdown)
	}
	if result.LayerSummaries != nil {
		writeVideoLayers(&b, result.LayerSummaries)
	}

	writeProgressLog(&b, log)
	return b.String()
}

func writeImageBreakdown(b *strings.Builder, br *analysis.ImageBreakdown) {
	b.WriteString("\n--- Analysis breakdown ---\n")

	if nn := br.NeuralNetwork; nn != nil {
		b.WriteString("Neural network ensemble:\n")
		writeScore(b, nn.Score)
		if nn.NumModels != nil {
			fmt.Fprintf(b, "  models: %d\n", *nn.NumModels)
		}
		if nn.ModelAgreement != nil {
			fmt.Fprintf(b, "  model agreement: %.2f\n", *nn.ModelAgreement)
		}
		for i, name := range nn.ModelNames {
			if i < len(nn.IndividualScores) {
				fmt.Fprintf(b, "  %s: %.2f\n", name, nn.IndividualScores[i])
			}
		}
	}

	if fd := br.FrequencyDomain; fd != nil {
		b.WriteString("Frequency domain:\n")
		writeScore(b, fd.Score)
		writeAnomaly(b, "FFT anomaly", fd.FFTAnomaly)
		writeAnomaly(b, "DCT anomaly", fd.DCTAnomaly)
	}

	if fa := br.FacialAnalysis; fa != nil {
		b.WriteString("Facial analysis:\n")
		writeScore(b, fa.Score)
		if fa.FaceDetected != nil && !*fa.FaceDetected {
			b.WriteString("  no face detected\n")
		}
		if fa.MethodUsed != "" {
			fmt.Fprintf(b, "  method: %s\n", fa.MethodUsed)
		}
		writeAnomaly(b, "symmetry anomaly", fa.SymmetryAnomaly)
		writeAnomaly(b, "eye anomaly", fa.EyeAnomaly)
		writeAnomaly(b, "texture anomaly", fa.TextureAnomaly)
	}

	if mf := br.MetadataForensics; mf != nil {
		b.WriteString("Metadata forensics:\n")
		writeScore(b, mf.Score)
		if mf.ExifPresent != nil {
			fmt.Fprintf(b, "  EXIF present: %v\n", *mf.ExifPresent)
		}
		if mf.EditingSoftwareDetected != nil && *mf.EditingSoftwareDetected {
			b.WriteString("  editing software detected\n")
		}
		if mf.ELAAnomalies != nil {
			fmt.Fprintf(b, "  ELA anomalies: %d\n", *mf.ELAAnomalies)
		}
	}
}

func writeVideoLayers(b *strings.Builder, ls *analysis.VideoLayerSummaries) {
	b.WriteString("\n--- Layer summaries ---\n")

	if v := ls.Visual; v != nil {
		b.WriteString("Visual:\n")
		if fb := v.FrameBased; fb != nil {
			if fb.EnsembleAvg != nil {
				fmt.Fprintf(b, "  ensemble avg: %.2f\n", *fb.EnsembleAvg)
			}
			if fb.EnsembleMax != nil {
				fmt.Fprintf(b, "  ensemble max: %.2f\n", *fb.EnsembleMax)
			}
		}
		if m := v.Model3D; m != nil && m.Score != nil {
			fmt.Fprintf(b, "  3D model score: %.2f\n", *m.Score)
		}
		if tp := v.Temporal; tp != nil {
			b.WriteString("Temporal:\n")
			writeScore(b, tp.Score)
			if tp.IdentityShifts != nil {
				fmt.Fprintf(b, "  identity shifts: %d\n", *tp.IdentityShifts)
			}
			writeAnomalies(b, tp.Anomalies)
		}
	}

	if a := ls.Audio; a != nil {
		b.WriteString("Audio:\n")
		if a.Present != nil && !*a.Present {
			b.WriteString("  no audio track\n")
		} else {
			writeScore(b, a.Score)
			if a.VoiceDeepfake != nil {
				fmt.Fprintf(b, "  voice deepfake: %.2f\n", *a.VoiceDeepfake)
			}
			if a.LipSync != nil {
				fmt.Fprintf(b, "  lip sync: %.2f\n", *a.LipSync)
			}
			writeAnomalies(b, a.Anomalies)
		}
	}

	if p := ls.Physiological; p != nil {
		b.WriteString("Physiological:\n")
		writeScore(b, p.Score)
		if p.HeartbeatDetected != nil && *p.HeartbeatDetected && p.HeartbeatBPM != nil {
			fmt.Fprintf(b, "  heartbeat: %.0f bpm\n", *p.HeartbeatBPM)
		}
		if p.BlinkCount != nil {
			fmt.Fprintf(b, "  blinks: %d\n", *p.BlinkCount)
		}
		writeAnomalies(b, p.Anomalies)
	}

	if ph := ls.Physics; ph != nil {
		b.WriteString("Physics:\n")
		writeScore(b, ph.Score)
		if ph.LightingConsistent != nil {
			fmt.Fprintf(b, "  lighting consistent: %v\n", *ph.LightingConsistent)
		}
		if ph.DepthPlausible != nil {
			fmt.Fprintf(b, "  depth plausible: %v\n", *ph.DepthPlausible)
		}
	}

	if sp := ls.Specialized; sp != nil {
		if bd := sp.Boundary; bd != nil {
			b.WriteString("Boundary:\n")
			writeScore(b, bd.Score)
			if bd.SuspiciousTransitions != nil {
				fmt.Fprintf(b, "  suspicious transitions: %d\n", *bd.SuspiciousTransitions)
			}
		}
		if cp := sp.Compression; cp != nil {
			b.WriteString("Compression:\n")
			writeScore(b, cp.Score)
			if cp.Mismatches != nil {
				fmt.Fprintf(b, "  mismatches: %d\n", *cp.Mismatches)
			}
		}
	}

	if m := ls.Metadata; m != nil {
		b.WriteString("Metadata:\n")
		writeScore(b, m.Score)
		if m.HasAudio != nil {
			fmt.Fprintf(b, "  has audio: %v\n", *m.HasAudio)
		}
	}
}

func writeProgressLog(b *strings.Builder, log []app.ProgressEvent) {
	if len(log) == 0 {
		return
	}
	b.WriteString("\n--- Pipeline log ---\n")
	for _, ev := range log {
		fmt.Fprintf(b, "%3d  %s\n", ev.Seq, ev.RawMessage)
	}
}

func writeScore(b *strings.Builder, score *float64) {
	if score != nil {
		fmt.Fprintf(b, "  score: %.2f\n", *score)
	}
}

func writeAnomaly(b *strings.Builder, label string, flagged *bool) {
	if flagged != nil && *flagged {
		fmt.Fprintf(b, "  %s\n", label)
	}
}

func writeAnomalies(b *strings.Builder, anomalies []string) {
	for _, a := range anomalies {
		fmt.Fprintf(b, "  anomaly: %s\n", a)
	}
}
