package handlers

import "github.com/puja9882/multimodal-parkinsons-detection/internal/pipeline"

type PredictResponse struct {
	Prediction             string    `json:"prediction"`
	CombinedScore          float64   `json:"combined_score"`
	Confidence             float64   `json:"confidence"`
	DrawingProb            float64   `json:"drawing_prob"`
	VoiceProb              float64   `json:"voice_prob"`
	Caution                *string   `json:"caution"`
	ExtractedVoiceFeatures []float64 `json:"extracted_voice_features"`
}

func newPredictResponse(p *pipeline.Prediction) PredictResponse {
	resp := PredictResponse{
		Prediction:             p.Label,
		CombinedScore:          p.CombinedScore,
		Confidence:             p.Confidence,
		DrawingProb:            p.DrawingProb,
		VoiceProb:              p.VoiceProb,
		Caution:                p.Caution,
		ExtractedVoiceFeatures: []float64{},
	}
	if p.Voice != nil && p.Voice.Vector != nil {
		resp.ExtractedVoiceFeatures = p.Voice.Vector
	}
	return resp
}
