package usecase

// Menu buttons and control buttons.
const (
	BtnHistorical = "📈 Historical Prices"
	BtnSMA        = "📊 SMA Analysis"
	BtnFullData   = "📋 Full Data"
	BtnGuide      = "ℹ️ Guide"
	BtnBack       = "🔙 Back to Menu"
	BtnCancel     = "❌ Cancel"
)

// Commands.
const (
	CmdStart      = "/start"
	CmdGuide      = "/Guide"
	CmdHistorical = "/Historical_prices"
	CmdSMA        = "/SMA"
)

const WelcomeMessage = `
🤖 **¡Bienvenido al Stocks Bot!**

Soy tu asistente para análisis de acciones estadounidenses. 
Puedo ayudarte con:

📈 **Historical Prices** - Obtén precios históricos con gráficos personalizables
📊 **SMA Analysis** - Calcula medias móviles y analiza tendencias
📋 **Full Data** - Información completa de una acción

Usa /Guide para ver instrucciones detalladas.
`

const GuideMessage = `
📖 **GUÍA DE USO**

**📈 HISTORICAL PRICES**
1. Selecciona "📈 Historical Prices"
2. Ingresa el ticker (ej: AAPL, TSLA) - SOLO MAYÚSCULAS
3. Ingresa fecha inicial (formato: YYYY-MM-DD)
4. Ingresa fecha final (formato: YYYY-MM-DD)
5. Ingresa multiplicador de tiempo (número)
6. Selecciona el periodo (day, week, month, etc.) - SOLO MINÚSCULAS
7. Selecciona tipo de gráfico (candle o line) - SOLO MINÚSCULAS

**📊 SMA ANALYSIS**
1. Selecciona "📊 SMA Analysis"
2. Ingresa el ticker de la acción
3. El bot calculará:
   - SMA 200 días
   - SMA 50 días
   - Tendencia del mercado (alcista/bajista)

**Interpretación de SMA:**
🟢 SMA200 < SMA50 → Tendencia ALCISTA
🔴 SMA200 > SMA50 → Tendencia BAJISTA
🟡 SMA200 = SMA50 → CRUCE (Crossover)

**📋 FULL DATA**
Obtiene información completa de precios de una acción.

**⚠️ IMPORTANTE:**
- Los tickers deben estar en MAYÚSCULAS
- Los periodos deben estar en minúsculas
- El formato de fecha es YYYY-MM-DD
- Los datos son del mercado estadounidense
`

// Validation and failure messages.
const (
	ErrorInvalidTicker     = "❌ **Error:** Ticker inválido. Debe estar en MAYÚSCULAS (ej: AAPL, TSLA)"
	ErrorInvalidDate       = "❌ **Error:** Fecha inválida. Formato correcto: YYYY-MM-DD (ej: 2024-01-01)"
	ErrorInvalidRange      = "❌ **Error:** La fecha final debe ser igual o posterior a la fecha inicial."
	ErrorInvalidMultiplier = "❌ **Error:** El multiplicador debe ser un número entero positivo"
	ErrorInvalidPeriod     = "❌ **Error:** Periodo inválido. Usa: day, week, month, quarter, year (en minúsculas)"
	ErrorInvalidChartType  = "❌ **Error:** Tipo de gráfico inválido. Usa: candle o line (en minúsculas)"
	ErrorAPILimit          = "❌ **Error:** Límite de API alcanzado. Intenta más tarde."
	ErrorNoData            = "❌ **Error:** No se encontraron datos para los parámetros especificados."
	ErrorUpstream          = "❌ **Error:** No se pudo conectar con Polygon.io. Intenta más tarde."
	ErrorTimeout           = "❌ **Error:** La consulta tardó demasiado. Intenta más tarde."
	ErrorBusy              = "⏳ El bot está ocupado. Intenta de nuevo en unos segundos."
	ErrorUnexpected        = "❌ **Error:** Ocurrió un error inesperado. Intenta de nuevo."
	ErrorNoAnalysis        = "❌ No se pudieron obtener datos para el análisis."
	ErrorFullDataFormat    = "❌ No se pudieron obtener datos para %s. Verifica que el ticker sea válido."
	ErrorInsufficientSMA   = "❌ Error: No hay suficientes datos para calcular SMA 200 (solo %d días disponibles)"
)

// Progress messages.
const (
	SuccessGeneratingChart = "⏳ Generando gráfico... Por favor espera."
	SuccessCalculatingSMA  = "⏳ Calculando medias móviles... Por favor espera."
	SuccessChartGenerated  = "✅ Gráfico generado exitosamente!"
	StatusFetchingData     = "📡 Obteniendo datos de Polygon.io..."
)

// Prompts.
const (
	PromptTicker     = "Ingresa el ticker de la acción (ej: AAPL, TSLA) - SOLO MAYÚSCULAS:"
	PromptStartDate  = "Ingresa la fecha inicial (formato: YYYY-MM-DD):"
	PromptEndDate    = "Ingresa la fecha final (formato: YYYY-MM-DD):"
	PromptMultiplier = "Ingresa el multiplicador de tiempo (número):"
	PromptPeriod     = "Selecciona el periodo:"
	PromptChartType  = "Selecciona el tipo de gráfico:"
)

const (
	BackToMenuMessage = "Regresando al menú principal..."
	UnknownMessage    = "❓ Comando no reconocido. Usa /Guide para ver las opciones disponibles."
	ChartCaption      = "📈 %s - %s to %s"
)
