package extract

import "testing"

func TestAmount(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		want       float64
		confidence int
	}{
		{
			name:       "card amount wins at top confidence",
			text:       "MERCADONA\nIMPORTE TARJETA: 12,34\nGRACIAS",
			want:       12.34,
			confidence: 95,
		},
		{
			name:       "paid amount",
			text:       "IMPORTE PAGADO 5,00",
			want:       5.00,
			confidence: 95,
		},
		{
			name:       "total a pagar",
			text:       "TOTAL A PAGAR 23,45",
			want:       23.45,
			confidence: 90,
		},
		{
			name:       "a pagar with eur suffix",
			text:       "A PAGAR 10,50 EUR",
			want:       10.50,
			confidence: 90,
		},
		{
			name:       "lowercase keyword",
			text:       "total a pagar 7,25",
			want:       7.25,
			confidence: 90,
		},
		{
			name:       "thousands separator stripped",
			text:       "TOTAL 1.234,56",
			want:       1234.56,
			confidence: 70,
		},
		{
			name:       "total compra outranks plain total",
			text:       "TOTAL COMPRA 15,90",
			want:       15.90,
			confidence: 80,
		},
		{
			name:       "largest secondary value wins",
			text:       "TOTAL 10,00\nTOTAL 25,50",
			want:       25.50,
			confidence: 70,
		},
		{
			name:       "value beats confidence across secondary patterns",
			text:       "12.34 EUR\nTOTAL 50,00",
			want:       50.00,
			confidence: 70,
		},
		{
			name:       "bare eur suffix parses dot decimals directly",
			text:       "9.99 EUR",
			want:       9.99,
			confidence: 85,
		},
		{
			name:       "priority tier preempts a larger secondary value",
			text:       "TOTAL 99,00\nIMPORTE TARJETA 12,00",
			want:       12.00,
			confidence: 95,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Amount(tt.text)
			if !ok {
				t.Fatalf("Amount(%q) not found", tt.text)
			}
			if got.Value != tt.want {
				t.Errorf("value = %v, want %v", got.Value, tt.want)
			}
			if got.Confidence != tt.confidence {
				t.Errorf("confidence = %d, want %d", got.Confidence, tt.confidence)
			}
		})
	}
}

func TestAmountNotFound(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty text", text: ""},
		{name: "no money token", text: "MERCADONA GRACIAS POR SU VISITA"},
		{name: "comma decimals without keyword or eur parse rule", text: "9,99 EUR"},
		{name: "value above range gate", text: "TOTAL 99999,00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := Amount(tt.text); ok {
				t.Errorf("Amount(%q) = %v, want miss", tt.text, got.Value)
			}
		})
	}
}
