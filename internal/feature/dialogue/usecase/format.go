package usecase

import (
	"fmt"
	"strings"

	fulldataentity "stocks_bot/internal/feature/fulldata/domain/entity"
	pricesentity "stocks_bot/internal/feature/prices/domain/entity"
	smaentity "stocks_bot/internal/feature/sma/domain/entity"
	"stocks_bot/internal/shared/format"
)

type trendText struct {
	label       string
	signal      string
	description string
}

var trendTexts = map[smaentity.Trend]trendText{
	smaentity.TrendBullish: {
		label:       "ALCISTA (Bullish)",
		signal:      "🟢",
		description: "La SMA 50 está por encima de la SMA 200, lo que indica una tendencia alcista.",
	},
	smaentity.TrendBearish: {
		label:       "BAJISTA (Bearish)",
		signal:      "🔴",
		description: "La SMA 50 está por debajo de la SMA 200, lo que indica una tendencia bajista.",
	},
	smaentity.TrendCrossover: {
		label:       "CRUCE (Crossover)",
		signal:      "🟡",
		description: "Las SMA 50 y SMA 200 están en el mismo nivel. Posible cambio de tendencia.",
	},
}

// FormatSMA renders a moving average analysis as a Markdown chat message.
func FormatSMA(a *smaentity.Analysis) string {
	if a == nil {
		return ErrorNoAnalysis
	}
	tt := trendTexts[a.Trend]

	var b strings.Builder
	fmt.Fprintf(&b, "\n📊 **ANÁLISIS SMA - %s**\n\n", a.Ticker)
	b.WriteString("**Información General:**\n")
	fmt.Fprintf(&b, "📅 Fechas calculadas: %s - %s\n",
		a.FirstDate.Format(pricesentity.DateLayout), a.LastDate.Format(pricesentity.DateLayout))
	fmt.Fprintf(&b, "💰 Precio Actual: $%.2f\n", a.CurrentPrice)
	fmt.Fprintf(&b, "📈 Total de días analizados: %d\n\n", a.TotalDays)

	b.WriteString("**Medias Móviles:**\n")
	fmt.Fprintf(&b, "📉 SMA 200 días: $%.2f\n", a.SMA200)
	fmt.Fprintf(&b, "   → Precio vs SMA200: %+.2f%%\n\n", a.PriceVsSMA200)
	fmt.Fprintf(&b, "📊 SMA 50 días: $%.2f\n", a.SMA50)
	fmt.Fprintf(&b, "   → Precio vs SMA50: %+.2f%%\n\n", a.PriceVsSMA50)

	b.WriteString("**Análisis de Tendencia:**\n")
	fmt.Fprintf(&b, "%s **%s**\n\n", tt.signal, tt.label)
	fmt.Fprintf(&b, "%s\n\n", tt.description)

	b.WriteString("**Interpretación:**\n")
	b.WriteString("• Cuando SMA50 > SMA200 → Señal ALCISTA 🟢\n")
	b.WriteString("• Cuando SMA50 < SMA200 → Señal BAJISTA 🔴\n")
	b.WriteString("• Cuando SMA50 = SMA200 → Posible CRUCE 🟡\n\n")
	b.WriteString("⚠️ **Nota:** Este análisis es solo informativo. No es asesoramiento financiero.\n")
	return b.String()
}

var directionEmoji = map[fulldataentity.Direction]string{
	fulldataentity.DirectionUp:      "🟢",
	fulldataentity.DirectionDown:    "🔴",
	fulldataentity.DirectionUnknown: "⚪",
}

// FormatSnapshot renders the latest trading day of a ticker as a Markdown chat message.
func FormatSnapshot(s *fulldataentity.Snapshot) string {
	date := s.Date.UTC()

	var b strings.Builder
	fmt.Fprintf(&b, "\n📋 **INFORMACIÓN COMPLETA - %s**\n\n", s.Ticker)
	b.WriteString("**Última Actualización:**\n")
	fmt.Fprintf(&b, "📅 Fecha: %s\n", date.Format(pricesentity.DateLayout))
	fmt.Fprintf(&b, "🕐 Hora: %s UTC\n\n", date.Format("15:04:05"))

	b.WriteString("**Precios del Día:**\n")
	fmt.Fprintf(&b, "💰 Precio de Cierre: %s\n", format.PriceDecimal(s.Close))
	fmt.Fprintf(&b, "📊 Precio de Apertura: %s\n", format.PriceDecimal(s.Open))
	fmt.Fprintf(&b, "📈 Precio Máximo: %s\n", format.PriceDecimal(s.High))
	fmt.Fprintf(&b, "📉 Precio Mínimo: %s\n\n", format.PriceDecimal(s.Low))

	b.WriteString("**Cambio del Día:**\n")
	fmt.Fprintf(&b, "%s %s (%s)\n\n", directionEmoji[s.Direction], format.SignedPercent(s.ChangePct), format.PriceDecimal(s.Change))

	b.WriteString("**Volumen:**\n")
	vol, _ := s.Volume.Float64()
	fmt.Fprintf(&b, "📊 Volumen: %s acciones\n\n", format.LargeNumber(vol))

	b.WriteString("**Rango del Día:**\n")
	fmt.Fprintf(&b, "↕️ %s - %s\n", format.PriceDecimal(s.Low), format.PriceDecimal(s.High))
	fmt.Fprintf(&b, "   Amplitud: %s (%s%%)\n", format.PriceDecimal(s.Range), s.RangePct.StringFixed(2))

	if d := s.Details; d != nil {
		b.WriteString("\n**Información del Ticker:**\n")
		fmt.Fprintf(&b, "🏢 Mercado: %s\n", orNA(d.Market))
		fmt.Fprintf(&b, "🌍 Localización: %s\n", orNA(d.Locale))
		fmt.Fprintf(&b, "🏦 Bolsa Principal: %s\n", orNA(d.PrimaryExchange))
		fmt.Fprintf(&b, "💵 Moneda: %s\n", orNA(d.CurrencyName))
		if d.Name != "" {
			fmt.Fprintf(&b, "\n**Compañía:** %s\n", d.Name)
		}
	}

	b.WriteString("\n⚠️ **Nota:** Los datos mostrados son del último día de trading disponible (pueden tener retraso de unos días).")
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
