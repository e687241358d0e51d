// Package timetable рисует недельное расписание работы оператора в PNG.
package timetable

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	imageWidth      = 1400
	imageHeight     = 900
	headerHeight    = 110
	leftLabelsWidth = 80
	legendWidth     = 150
	dayPaddingX     = 8
	minBlockHeight  = 8.0
	blockRadius     = 6.0
	shadowOffset    = 3.0
	daysInWeek      = 7
	hourPaddingTop  = 1
	hourPaddingBot  = 1
	defaultMinHour  = 8
	defaultMaxHour  = 20
)

// Масштаб встроенного растрового шрифта 7x13
const (
	titleScale  = 2.4
	dayScale    = 2.0
	hourScale   = 1.4
	blockScale  = 1.3
	legendScale = 1.1
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 90}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{225, 225, 225, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	scheduledColor = color.RGBA{120, 170, 230, 230}
	completedColor = color.RGBA{133, 193, 85, 220}
	canceledColor  = color.RGBA{170, 170, 170, 180}
	adjustedColor  = color.RGBA{240, 190, 90, 230}
	blockTextColor = color.RGBA{20, 24, 28, 230}
	shadowColor    = color.RGBA{0, 0, 0, 20}
)

// Entry одна запись журнала и подпись для неё
type Entry struct {
	Log   *model.OperatorWorkLog
	Label string // оборудование или пользователь
}

// Week данные для отрисовки недели
type Week struct {
	Range        model.Interval
	Location     *time.Location
	Entries      []Entry
	TotalMinutes int
	Now          time.Time
}

type hourRange struct {
	start int
	end   int
	total int
}

// Render рисует неделю и возвращает PNG
func Render(w Week) ([]byte, error) {
	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}
	weekStart := w.Range.Start.In(loc)
	now := w.Now.In(loc)

	byDay := groupByDay(w.Entries, loc)
	hours := calculateHourRange(w.Entries, loc)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(face())

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / daysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, weekStart, w.TotalMinutes)
	drawHourLabels(dc, hours, cellHeight)

	highlightToday := !now.Before(weekStart) && now.Before(weekStart.AddDate(0, 0, daysInWeek))
	day := weekStart
	for i := 0; i < daysInWeek; i++ {
		x := float64(leftLabelsWidth + i*dayWidth)
		y := float64(headerHeight)
		isToday := highlightToday && sameDay(day, now)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, i, isToday)
		drawDayHeader(dc, day, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, e := range byDay[day.Format("2006-01-02")] {
			drawEntry(dc, e, loc, x, y, dayWidth, hours, cellHeight)
		}
		day = day.AddDate(0, 0, 1)
	}

	if highlightToday {
		drawCurrentTimeLine(dc, now, hours, cellHeight, dayWidth)
	}
	drawLegend(dc, dayWidth)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func face() font.Face {
	return basicfont.Face7x13
}

// drawText рисует строку растровым шрифтом, увеличенным в scale раз
func drawText(dc *gg.Context, s string, x, y, ax, ay, scale float64) {
	dc.Push()
	dc.Translate(x, y)
	dc.Scale(scale, scale)
	dc.DrawStringAnchored(s, 0, 0, ax, ay)
	dc.Pop()
}

// groupByDay записи по дню начала во времени кампуса
func groupByDay(entries []Entry, loc *time.Location) map[string][]Entry {
	out := make(map[string][]Entry)
	for _, e := range entries {
		key := e.Log.StartAt.In(loc).Format("2006-01-02")
		out[key] = append(out[key], e)
	}
	return out
}

func calculateHourRange(entries []Entry, loc *time.Location) hourRange {
	minHour, maxHour := 24, 0
	for _, e := range entries {
		start := e.Log.StartAt.In(loc)
		end := e.Log.EndAt.In(loc)
		endH := end.Hour()
		if end.Minute() > 0 || !sameDay(start, end) {
			endH++
		}
		if !sameDay(start, end) {
			endH = 24
		}
		if start.Hour() < minHour {
			minHour = start.Hour()
		}
		if endH > maxHour {
			maxHour = endH
		}
	}
	if minHour == 24 {
		minHour, maxHour = defaultMinHour, defaultMaxHour
	}

	start := minHour - hourPaddingTop
	end := maxHour + hourPaddingBot
	if start < 0 {
		start = 0
	}
	if end > 24 {
		end = 24
	}
	return hourRange{start: start, end: end, total: end - start}
}

func drawHeader(dc *gg.Context, weekStart time.Time, totalMinutes int) {
	weekEnd := weekStart.AddDate(0, 0, daysInWeek-1)
	title := fmt.Sprintf("Operator week %s - %s", weekStart.Format("02 Jan"), weekEnd.Format("02 Jan 2006"))

	dc.SetColor(textColor)
	drawText(dc, title, 20, float64(headerHeight)/4, 0, 0.5, titleScale)
	drawText(dc, "Worked: "+FormatMinutes(totalMinutes), float64(imageWidth)-20, float64(headerHeight)/4, 1, 0.5, dayScale)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)
	for i := 0; i <= hours.total; i++ {
		y := float64(headerHeight) + float64(i)*cellHeight
		drawText(dc, formatHourLabel(hours.start+i), float64(leftLabelsWidth)-10, y, 1, 0.5, hourScale)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	dc.SetColor(textColor)
	cx := x + float64(dayWidth)/2
	drawText(dc, date.Format("Mon"), cx, y-34, 0.5, 0.5, dayScale)
	drawText(dc, date.Format("02.01"), cx, y-12, 0.5, 0.5, hourScale)
}

func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	for i := 0; i <= hours.total; i++ {
		hy := y + float64(i)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

func drawEntry(dc *gg.Context, e Entry, loc *time.Location, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	start := e.Log.StartAt.In(loc)
	end := e.Log.EndAt.In(loc)

	startHour := float64(start.Hour()) + float64(start.Minute())/60.0
	endHour := float64(end.Hour()) + float64(end.Minute())/60.0
	if !sameDay(start, end) {
		endHour = 24
	}

	blockY := y + (startHour-float64(hours.start))*cellHeight
	blockHeight := (endHour - startHour) * cellHeight
	if blockHeight < minBlockHeight {
		blockHeight = minBlockHeight
	}
	blockWidth := float64(dayWidth) - float64(dayPaddingX*2)
	fill := StatusColor(e.Log.Status)

	dc.SetColor(shadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, blockY+2+shadowOffset, blockWidth, blockHeight-4, blockRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+dayPaddingX, blockY+2, blockWidth, blockHeight-4, blockRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+dayPaddingX, blockY+2, blockWidth, blockHeight-4, blockRadius)
	dc.Stroke()

	dc.SetColor(blockTextColor)
	txtX := x + dayPaddingX + 6
	drawText(dc, start.Format("15:04")+"-"+end.Format("15:04"), txtX, blockY+14, 0, 0.5, blockScale)
	if e.Label != "" && blockHeight > 34 {
		drawText(dc, truncate(e.Label, 18), txtX, blockY+32, 0, 0.5, blockScale)
	}
}

func drawCurrentTimeLine(dc *gg.Context, now time.Time, hours hourRange, cellHeight float64, dayWidth int) {
	current := float64(now.Hour()) + float64(now.Minute())/60.0
	if current < float64(hours.start) || current > float64(hours.end) {
		return
	}
	y := float64(headerHeight) + (current-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(float64(leftLabelsWidth), y, float64(leftLabelsWidth+daysInWeek*dayWidth), y)
	dc.Stroke()
}

func drawLegend(dc *gg.Context, dayWidth int) {
	x := float64(leftLabelsWidth + daysInWeek*dayWidth + 12)
	y := float64(imageHeight) - 140.0

	items := []model.WorkLogStatus{
		model.WorkLogStatusScheduled,
		model.WorkLogStatusCompleted,
		model.WorkLogStatusAdjusted,
		model.WorkLogStatusCanceled,
	}
	const boxW, boxH = 20.0, 14.0
	for _, status := range items {
		dc.SetColor(StatusColor(status))
		dc.DrawRoundedRectangle(x, y, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(textColor)
		drawText(dc, string(status), x+boxW+8, y+boxH/2, 0, 0.5, legendScale)
		y += boxH + 14
	}
}

// StatusColor цвет блока для статуса записи журнала
func StatusColor(status model.WorkLogStatus) color.RGBA {
	switch status {
	case model.WorkLogStatusScheduled:
		return scheduledColor
	case model.WorkLogStatusCompleted:
		return completedColor
	case model.WorkLogStatusAdjusted:
		return adjustedColor
	default:
		return canceledColor
	}
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func formatHourLabel(h int) string {
	if h < 10 {
		return "0" + strconv.Itoa(h) + ":00"
	}
	return strconv.Itoa(h) + ":00"
}

// FormatMinutes 90 -> "1h 30m"
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
