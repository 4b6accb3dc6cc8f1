// Package chart は価格系列をPNG画像として描画します。
package chart

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"stocks_bot/internal/feature/prices/domain"
	"stocks_bot/internal/feature/prices/domain/entity"
	"stocks_bot/internal/feature/prices/usecase"
	"stocks_bot/internal/shared/format"
)

const (
	width  = 12 * vg.Inch
	height = 8 * vg.Inch

	// 日付ラベルの最大数
	maxDateTicks = 8
)

var (
	upColor   = color.RGBA{R: 0x26, G: 0xa6, B: 0x9a, A: 0xff}
	downColor = color.RGBA{R: 0xef, G: 0x53, B: 0x50, A: 0xff}
	lineColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
)

// Renderer は gonum/plot を使ったチャート描画器です。
type Renderer struct {
	dir string
	now func() time.Time
}

var _ usecase.ChartRenderer = (*Renderer)(nil)

// NewRenderer は出力先ディレクトリを指定して Renderer を作成します。
// dir が空の場合は OS の一時ディレクトリを使います。
func NewRenderer(dir string) *Renderer {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Renderer{dir: dir, now: time.Now}
}

// Dir は出力先ディレクトリを返します。
func (r *Renderer) Dir() string { return r.dir }

// UniquePath は "<dir>/<TICKER>_<YYYYMMDD_HHMMSS>_<uuid8>.png" 形式のパスを返します。
func UniquePath(dir, ticker string, now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	name := fmt.Sprintf("%s_%s_%s.png", ticker, now.Format("20060102_150405"), id)
	return filepath.Join(dir, name)
}

// Render は価格パネルと出来高パネルからなるチャートを描画し、書き出したパスを返します。
// outputPath が空の場合は UniquePath で生成します。
// 失敗時にファイルは残しません。
func (r *Renderer) Render(bars []entity.Bar, ticker string, chartType entity.ChartType, outputPath string) (string, error) {
	if _, err := entity.ParseChartType(string(chartType)); err != nil {
		return "", err
	}
	if len(bars) == 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrEmptySeries, ticker)
	}
	if outputPath == "" {
		if err := os.MkdirAll(r.dir, 0o755); err != nil {
			return "", fmt.Errorf("create chart dir: %w", err)
		}
		outputPath = UniquePath(r.dir, ticker, r.now())
	}

	img := vgimg.New(width, height)
	dc := draw.New(img)
	if err := drawChart(dc, bars, ticker, chartType); err != nil {
		return "", err
	}

	if err := writePNG(img, outputPath); err != nil {
		slog.Error("failed to write chart", "ticker", ticker, "path", outputPath, "error", err)
		return "", err
	}
	return outputPath, nil
}

func drawChart(dc draw.Canvas, bars []entity.Bar, ticker string, chartType entity.ChartType) error {
	xmin, xmax := -0.5, float64(len(bars))-0.5
	dates := dateTicks(bars)

	price := plot.New()
	price.Title.Text = ticker + " - Historical Prices"
	price.Y.Label.Text = "Price (USD)"
	price.X.Min, price.X.Max = xmin, xmax
	price.X.Tick.Marker = noLabels{dates}
	price.Y.Tick.Marker = compactTicks{fmtFn: func(v float64) string { return fmt.Sprintf("%.2f", v) }}
	price.Add(plotter.NewGrid())

	switch chartType {
	case entity.ChartCandle:
		price.Add(candles(bars))
	case entity.ChartLine:
		xys := make(plotter.XYs, len(bars))
		for i, b := range bars {
			xys[i].X = float64(i)
			xys[i].Y = b.Close
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("build close line: %w", err)
		}
		line.LineStyle.Color = lineColor
		line.LineStyle.Width = vg.Points(1.5)
		price.Add(line)
	}

	volume := plot.New()
	volume.Y.Label.Text = "Volume"
	volume.X.Min, volume.X.Max = xmin, xmax
	volume.Y.Min = 0
	volume.X.Tick.Marker = dates
	volume.Y.Tick.Marker = compactTicks{fmtFn: format.LargeNumber}
	volume.Add(volumeBars(bars))

	// 価格:出来高 = 3:1
	h := dc.Max.Y - dc.Min.Y
	price.Draw(draw.Crop(dc, 0, 0, h/4, 0))
	volume.Draw(draw.Crop(dc, 0, 0, 0, -3*h/4))
	return nil
}

// writePNG は同じディレクトリの一時ファイルに書き出してからリネームします。
func writePNG(img *vgimg.Canvas, path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".chart-*.png.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = (vgimg.PngCanvas{Canvas: img}).WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move chart into place: %w", err)
	}
	return nil
}

// candleSticks はローソク足を描く plot.Plotter です。
type candleSticks struct {
	bars []entity.Bar
}

func candles(bars []entity.Bar) candleSticks { return candleSticks{bars: bars} }

func (c candleSticks) Plot(canvas draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&canvas)
	for i, b := range c.bars {
		clr := downColor
		if b.Up() {
			clr = upColor
		}
		x := float64(i)
		wick := draw.LineStyle{Color: clr, Width: vg.Points(1)}
		canvas.StrokeLine2(wick, trX(x), trY(b.Low), trX(x), trY(b.High))

		left, right := trX(x-0.3), trX(x+0.3)
		top, bottom := trY(b.Open), trY(b.Close)
		if top == bottom {
			canvas.StrokeLine2(wick, left, top, right, top)
			continue
		}
		canvas.FillPolygon(clr, []vg.Point{
			{X: left, Y: bottom},
			{X: left, Y: top},
			{X: right, Y: top},
			{X: right, Y: bottom},
		})
	}
}

func (c candleSticks) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = -0.5, float64(len(c.bars))-0.5
	ymin, ymax = c.bars[0].Low, c.bars[0].High
	for _, b := range c.bars[1:] {
		ymin = min(ymin, b.Low)
		ymax = max(ymax, b.High)
	}
	return xmin, xmax, ymin, ymax
}

// volumeColumns は出来高の棒を描きます。色は足の陽線・陰線に合わせます。
type volumeColumns struct {
	bars []entity.Bar
}

func volumeBars(bars []entity.Bar) volumeColumns { return volumeColumns{bars: bars} }

func (v volumeColumns) Plot(canvas draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&canvas)
	for i, b := range v.bars {
		clr := downColor
		if b.Up() {
			clr = upColor
		}
		x := float64(i)
		left, right := trX(x-0.35), trX(x+0.35)
		canvas.FillPolygon(clr, []vg.Point{
			{X: left, Y: trY(0)},
			{X: left, Y: trY(b.Volume)},
			{X: right, Y: trY(b.Volume)},
			{X: right, Y: trY(0)},
		})
	}
}

func (v volumeColumns) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = -0.5, float64(len(v.bars))-0.5
	for _, b := range v.bars {
		ymax = max(ymax, b.Volume)
	}
	if ymax == 0 {
		ymax = 1
	}
	return xmin, xmax, 0, ymax
}

// dateLabels は足のインデックスを日付ラベルに変換する plot.Ticker です。
// 休場日は詰めて表示されます。
type dateLabels struct {
	times []time.Time
}

func dateTicks(bars []entity.Bar) dateLabels {
	ts := make([]time.Time, len(bars))
	for i, b := range bars {
		ts[i] = b.Time
	}
	return dateLabels{times: ts}
}

func (d dateLabels) Ticks(lo, hi float64) []plot.Tick {
	n := len(d.times)
	if n == 0 {
		return nil
	}
	step := (n + maxDateTicks - 1) / maxDateTicks
	if step < 1 {
		step = 1
	}
	var ticks []plot.Tick
	for i := 0; i < n; i += step {
		if float64(i) < lo || float64(i) > hi {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: float64(i), Label: d.times[i].Format(entity.DateLayout)})
	}
	return ticks
}

// noLabels は日付と同じ位置に目盛りだけを打ちます。
type noLabels struct {
	dates dateLabels
}

func (n noLabels) Ticks(lo, hi float64) []plot.Tick {
	ticks := n.dates.Ticks(lo, hi)
	for i := range ticks {
		ticks[i].Label = ""
	}
	return ticks
}

// compactTicks は既定の目盛り位置を使い、ラベルだけを書式化します。
type compactTicks struct {
	fmtFn func(float64) string
}

func (c compactTicks) Ticks(lo, hi float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(lo, hi)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = c.fmtFn(ticks[i].Value)
		}
	}
	return ticks
}
