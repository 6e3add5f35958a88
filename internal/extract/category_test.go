package extract

import (
	"testing"

	"github.com/gastosbot/receipts-engine/constants"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		title      string
		want       constants.Category
		confidence int
	}{
		{
			name:       "two keyword hits",
			text:       "RESTAURANTE EL PATIO\nCAFE CON LECHE 1,50",
			want:       constants.Comida,
			confidence: 60,
		},
		{
			name:       "confidence capped at 85",
			text:       "SUPERMERCADO MERCADONA",
			want:       constants.Comida,
			confidence: 85,
		},
		{
			name:       "transport keywords",
			text:       "ESTACION DE SERVICIO\nGASOLINA 95",
			want:       constants.Transporte,
			confidence: 30,
		},
		{
			name:       "title contributes to the haystack",
			text:       "TOTAL 8,50",
			title:      "Cine Yelmo",
			want:       constants.Entretenimiento,
			confidence: 30,
		},
		{
			name:       "tie resolves to the earlier table entry",
			text:       "bar tienda",
			want:       constants.Comida,
			confidence: 30,
		},
		{
			name:       "no signal falls back to otros",
			text:       "XYZ 123",
			want:       constants.Otros,
			confidence: 30,
		},
		{
			name:       "empty input falls back to otros",
			text:       "",
			want:       constants.Otros,
			confidence: 30,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Category(tt.text, tt.title)
			if got.Value != tt.want {
				t.Errorf("category = %q, want %q", got.Value, tt.want)
			}
			if got.Confidence != tt.confidence {
				t.Errorf("confidence = %d, want %d", got.Confidence, tt.confidence)
			}
		})
	}
}

func TestOverall(t *testing.T) {
	tests := []struct {
		name                           string
		amount, date, title, category int
		want                           float64
	}{
		{name: "amount carries double weight", amount: 100, want: 40},
		{name: "typical mixed scores", amount: 95, date: 70, title: 85, category: 60, want: 81},
		{name: "all equal passes through", amount: 85, date: 85, title: 85, category: 85, want: 85},
		{name: "all zero", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overall(tt.amount, tt.date, tt.title, tt.category)
			if got != tt.want {
				t.Errorf("Overall(%d,%d,%d,%d) = %v, want %v",
					tt.amount, tt.date, tt.title, tt.category, got, tt.want)
			}
		})
	}
}
