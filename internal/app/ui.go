package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"yashubustudio/chandas/chandas"
	"yashubustudio/chandas/internal/corpus"
)

const (
	logDebounceInterval = 150 * time.Millisecond
	maxLogLines         = 200
)

var vedaChoices = []string{"unknown", "rigveda", "samaveda", "yajurveda", "atharvaveda"}

type uiState struct {
	service *chandas.Service
	store   *corpus.Store
	logger  *zap.Logger
	cfg     chandas.Config
	cfgPath string

	w             fyne.Window
	input         *widget.Entry
	perLine       *widget.Check
	log           *widget.Entry
	status        *widget.Label
	progress      *widget.ProgressBar
	configSummary *widget.Label
	resTbl        *widget.Table
	columns       []tableColumn
	rows          []chandas.Analysis
	statusBind    binding.String
	logBind       binding.String
	progressBind  binding.Float
	logLines      []string
	logMu         sync.Mutex
	logUpdateCh   chan struct{}

	// loaded holds records read from a file while the input still shows their text.
	loaded     []chandas.VerseRecord
	loadedText string

	analyzeBtn *widget.Button
	exportBtn  *widget.Button
	loadBtn    *widget.Button
	saveRunBtn *widget.Button
}

func buildUI(a fyne.App, svc *chandas.Service, store *corpus.Store, cfgPath string) *uiState {
	u := &uiState{service: svc, store: store, cfgPath: cfgPath, logger: zap.NewNop()}
	u.cfg = svc.Config()
	u.w = a.NewWindow("Chandas - ヴェーダ韻律判定")

	u.statusBind = binding.NewString()
	_ = u.statusBind.Set("準備完了")
	u.progressBind = binding.NewFloat()
	u.logBind = binding.NewString()
	u.startLogUpdater()

	u.input = widget.NewMultiLineEntry()
	u.input.Wrapping = fyne.TextWrapWord
	u.input.SetPlaceHolder("ここに詩節を入力（空行または ॥ で区切る）")
	u.perLine = widget.NewCheck("1行=1詩節", nil)

	u.log = widget.NewEntryWithData(u.logBind)
	u.log.MultiLine = true
	u.log.Wrapping = fyne.TextWrapWord
	u.log.SetPlaceHolder("処理ログ")
	u.log.Disable()

	u.status = widget.NewLabelWithData(u.statusBind)
	u.progress = widget.NewProgressBarWithData(u.progressBind)
	u.progress.Hide()
	u.configSummary = widget.NewLabel("")
	u.configSummary.Wrapping = fyne.TextWrapWord

	u.analyzeBtn = widget.NewButtonWithIcon("韻律判定", theme.ConfirmIcon(), func() { u.onAnalyze() })
	u.exportBtn = widget.NewButtonWithIcon("CSVエクスポート", theme.DocumentSaveIcon(), func() { u.onExport() })
	u.loadBtn = widget.NewButtonWithIcon("ファイル読込", theme.FolderOpenIcon(), func() { u.onLoadFile() })
	u.saveRunBtn = widget.NewButtonWithIcon("結果を保存", theme.StorageIcon(), func() { u.onSaveRun() })
	if store == nil {
		u.saveRunBtn.Disable()
	}
	settingsBtn := widget.NewButtonWithIcon("設定", theme.SettingsIcon(), func() { u.openSettings() })

	u.columns = resultColumns()
	u.resTbl = widget.NewTable(
		func() (int, int) {
			return len(u.rows) + 1, len(u.columns)
		},
		func() fyne.CanvasObject {
			lbl := widget.NewLabel("")
			lbl.Wrapping = fyne.TextWrapWord
			return lbl
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			lbl := obj.(*widget.Label)
			if id.Row == 0 {
				lbl.SetText(u.columns[id.Col].Title)
				lbl.Alignment = fyne.TextAlignCenter
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				u.resTbl.SetRowHeight(id.Row, 32)
				return
			}
			lbl.TextStyle = fyne.TextStyle{}
			lbl.Alignment = fyne.TextAlignLeading
			rowIdx := id.Row - 1
			if rowIdx >= len(u.rows) {
				lbl.SetText("")
				return
			}
			val := u.columns[id.Col].Render(u.rows[rowIdx])
			lbl.SetText(val)
			if id.Col == 0 {
				need := wrappedHeightFor(val, u.columns[id.Col].Width)
				if padas := wrappedHeightFor(u.columns[3].Render(u.rows[rowIdx]), u.columns[3].Width); padas > need {
					need = padas
				}
				if need < 32 {
					need = 32
				}
				u.resTbl.SetRowHeight(id.Row, need)
			}
		},
	)
	u.resTbl.OnSelected = func(id widget.TableCellID) {
		if id.Row > 0 && id.Row-1 < len(u.rows) {
			u.showDetails(u.rows[id.Row-1])
		}
		u.resTbl.UnselectAll()
	}
	u.applyColumnWidths()

	controlRow1 := container.NewGridWithColumns(3, u.analyzeBtn, u.exportBtn, settingsBtn)
	controlRow2 := container.NewGridWithColumns(3, u.loadBtn, u.saveRunBtn, u.perLine)
	left := container.NewVBox(
		widget.NewLabelWithStyle("入力テキスト", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWrap(fyne.NewSize(380, 220), u.input),
		controlRow1,
		controlRow2,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("進捗", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		u.progress,
		u.status,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("設定サマリ", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		u.configSummary,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("ログ", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWrap(fyne.NewSize(380, 180), u.log),
	)

	right := container.NewBorder(nil, nil, nil, nil, u.resTbl)
	split := container.NewHSplit(left, right)
	split.Offset = 0.3

	u.w.SetContent(split)
	u.w.Resize(fyne.NewSize(1280, 780))
	u.updateConfigSummary()
	return u
}

func (u *uiState) applyColumnWidths() {
	for i, col := range u.columns {
		u.resTbl.SetColumnWidth(i, col.Width)
	}
	u.resTbl.SetRowHeight(0, 32)
}

func (u *uiState) setBusy(b bool) {
	fyne.Do(func() {
		for _, btn := range []*widget.Button{u.analyzeBtn, u.exportBtn, u.loadBtn, u.saveRunBtn} {
			if b {
				btn.Disable()
			} else {
				btn.Enable()
			}
		}
		if u.store == nil {
			u.saveRunBtn.Disable()
		}
	})
}

func (u *uiState) appendLog(msg string) {
	now := time.Now().Format("15:04:05")
	line := fmt.Sprintf("[%s] %s", now, msg)

	u.logMu.Lock()
	u.logLines = append(u.logLines, line)
	if len(u.logLines) > maxLogLines {
		u.logLines = u.logLines[len(u.logLines)-maxLogLines:]
	}
	u.logMu.Unlock()

	if u.logUpdateCh == nil {
		u.flushLog()
		return
	}
	select {
	case u.logUpdateCh <- struct{}{}:
	default:
	}
}

func (u *uiState) startLogUpdater() {
	if u.logUpdateCh != nil {
		return
	}
	u.logUpdateCh = make(chan struct{}, 1)
	go u.logUpdateLoop()
}

func (u *uiState) logUpdateLoop() {
	timer := time.NewTimer(logDebounceInterval)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-u.logUpdateCh:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(logDebounceInterval)
		case <-timer.C:
			u.flushLog()
		}
	}
}

func (u *uiState) flushLog() {
	u.logMu.Lock()
	text := strings.Join(u.logLines, "\n")
	u.logMu.Unlock()
	_ = u.logBind.Set(text)
}

func (u *uiState) setStatus(text string) {
	_ = u.statusBind.Set(text)
}

func (u *uiState) configureProgress(min, max float64) {
	fyne.Do(func() {
		u.progress.Min = min
		u.progress.Max = max
	})
}

func (u *uiState) setProgressValue(value float64) {
	_ = u.progressBind.Set(value)
}

func (u *uiState) showProgress() {
	fyne.Do(func() { u.progress.Show() })
}

func (u *uiState) hideProgress() {
	fyne.Do(func() { u.progress.Hide() })
}

func (u *uiState) updateConfigSummary() {
	cfg := u.cfg
	rules := u.service.Rules()
	rulesStatus := "なし"
	if rules.Len() > 0 {
		rulesStatus = fmt.Sprintf("%d件 (%s)", rules.Len(), filepath.Base(rules.Source()))
	}
	corpusStatus := "OFF"
	if u.store != nil {
		if n, err := u.store.Count(context.Background()); err == nil {
			corpusStatus = fmt.Sprintf("%d件", n)
		}
	}
	svara := "保持"
	if cfg.StripSvaras {
		svara = "除去"
	}
	u.configSummary.SetText(fmt.Sprintf("ヴェーダ:%s / スヴァラ:%s / 並列数:%d / ルール:%s / 参照データ:%s",
		cfg.SourceVeda, svara, cfg.Workers, rulesStatus, corpusStatus))
}

// inputRecords returns the loaded file records when the input still shows them,
// otherwise the verses typed into the input area.
func (u *uiState) inputRecords() ([]chandas.VerseRecord, error) {
	text := u.input.Text
	if len(u.loaded) > 0 && text == u.loadedText {
		return u.loaded, nil
	}
	return chandas.ParseVerses(strings.NewReader(text), "text", chandas.VerseParseOptions{PerLine: u.perLine.Checked})
}

func (u *uiState) onAnalyze() {
	records, err := u.inputRecords()
	if err != nil {
		dialog.ShowError(err, u.w)
		return
	}
	if len(records) == 0 {
		dialog.ShowInformation("情報", "入力テキストが空です", u.w)
		return
	}
	total := len(records)
	u.configureProgress(0, float64(total))
	u.setProgressValue(0)
	u.showProgress()
	u.setStatus("処理中...")
	u.setBusy(true)
	u.appendLog(fmt.Sprintf("判定開始 (%d件)", total))
	start := time.Now()

	go func(records []chandas.VerseRecord) {
		rows, err := u.service.AnalyzeAll(context.Background(), records, func(done, total int) {
			u.setProgressValue(float64(done))
			u.setStatus(fmt.Sprintf("処理中 %d/%d", done, total))
		})

		u.setBusy(false)
		u.hideProgress()
		if err != nil {
			fyne.Do(func() {
				dialog.ShowError(err, u.w)
			})
			u.setStatus("エラー")
			u.appendLog(fmt.Sprintf("エラー: %v", err))
			return
		}
		fyne.Do(func() {
			u.rows = rows
			u.resTbl.Refresh()
		})
		elapsed := time.Since(start).Seconds()
		u.setProgressValue(float64(len(rows)))
		u.setStatus(fmt.Sprintf("完了 %d件 (%.1fs)", len(rows), elapsed))
		u.appendLog(fmt.Sprintf("判定完了 %d件 (%.1fs)", len(rows), elapsed))
	}(records)
}

func (u *uiState) showDetails(a chandas.Analysis) {
	body := widget.NewLabel(detailText(a))
	body.Wrapping = fyne.TextWrapWord
	scroll := container.NewVScroll(body)
	scroll.SetMinSize(fyne.NewSize(640, 420))
	dialog.NewCustom(summarizeText(a.Input, 40), "閉じる", scroll, u.w).Show()
}

func (u *uiState) onExport() {
	if len(u.rows) == 0 {
		dialog.ShowInformation("情報", "出力データがありません", u.w)
		return
	}
	rows := u.rows
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil || uc == nil {
			return
		}
		defer uc.Close()
		if err := chandas.WriteAnalysesCSV(uc, rows); err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		u.appendLog(fmt.Sprintf("CSVエクスポート完了 (%d件)", len(rows)))
	}, u.w)
	fd.SetFileName("result.csv")
	fd.Show()
}

func (u *uiState) onSaveRun() {
	if u.store == nil {
		return
	}
	if len(u.rows) == 0 {
		dialog.ShowInformation("情報", "保存する結果がありません", u.w)
		return
	}
	id, err := u.store.SaveRun(context.Background(), u.rows)
	if err != nil {
		dialog.ShowError(err, u.w)
		return
	}
	u.appendLog(fmt.Sprintf("実行結果を保存しました (run %s)", id))
}

func (u *uiState) openSettings() {
	cfg := u.cfg
	vedaSel := widget.NewSelect(vedaChoices, nil)
	vedaSel.SetSelected(cfg.SourceVeda)
	stripCheck := widget.NewCheck("スヴァラ記号を除去して判定", nil)
	stripCheck.SetChecked(cfg.StripSvaras)
	workersEntry := widget.NewEntry()
	workersEntry.SetText(strconv.Itoa(cfg.Workers))

	form := &widget.Form{Items: []*widget.FormItem{
		{Text: "ヴェーダ", Widget: vedaSel},
		{Text: "スヴァラ", Widget: stripCheck},
		{Text: "並列数", Widget: workersEntry},
	}}

	dialog.NewCustomConfirm("設定", "OK", "キャンセル", form, func(ok bool) {
		if !ok {
			return
		}
		newCfg := cfg
		if vedaSel.Selected != "" {
			newCfg.SourceVeda = vedaSel.Selected
		}
		newCfg.StripSvaras = stripCheck.Checked
		if v, err := strconv.Atoi(strings.TrimSpace(workersEntry.Text)); err == nil && v > 0 {
			newCfg.Workers = v
		}

		newCfg = u.service.UpdateConfig(newCfg)
		u.cfg = newCfg
		if err := chandas.SaveConfig(u.cfgPath, newCfg); err != nil {
			u.logger.Warn("save config", zap.Error(err))
		}
		u.updateConfigSummary()
		u.appendLog("設定を更新しました")
	}, u.w).Show()
}

func (u *uiState) onLoadFile() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		uri := rc.URI()
		format := strings.TrimPrefix(strings.ToLower(filepath.Ext(uri.Path())), ".")
		if format != "csv" && format != "tsv" {
			format = "text"
		}
		opts := chandas.VerseParseOptions{PerLine: u.perLine.Checked}
		records, err := chandas.ParseVerses(bytes.NewReader(data), format, opts)
		if err != nil && format != "text" {
			u.chooseTextColumn(uri, data, format, opts)
			return
		}
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		u.applyLoadedRecords(uri, records)
	}, u.w)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".txt", ".csv", ".tsv"}))
	fd.Show()
}

// chooseTextColumn asks for the text column when none of the known headers matched.
func (u *uiState) chooseTextColumn(uri fyne.URI, data []byte, format string, opts chandas.VerseParseOptions) {
	header, err := chandas.ReadHeader(bytes.NewReader(data), format)
	if err != nil {
		dialog.ShowError(err, u.w)
		return
	}
	if len(header) == 0 {
		dialog.ShowError(errors.New("CSVが空です"), u.w)
		return
	}
	options := make([]string, len(header))
	for i, name := range header {
		if name == "" {
			name = fmt.Sprintf("列%d", i+1)
		}
		options[i] = fmt.Sprintf("#%d %s", i+1, name)
	}
	selected := 0
	selectWidget := widget.NewSelect(options, func(value string) {
		for i, opt := range options {
			if opt == value {
				selected = i
				return
			}
		}
	})
	selectWidget.SetSelected(options[0])
	content := container.NewVBox(widget.NewLabel("本文の列を選択してください"), selectWidget)
	dialog.NewCustomConfirm("列の選択", "読み込む", "キャンセル", content, func(ok bool) {
		if !ok {
			return
		}
		opts.TextColumn = fmt.Sprintf("#%d", selected+1)
		records, err := chandas.ParseVerses(bytes.NewReader(data), format, opts)
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		u.applyLoadedRecords(uri, records)
	}, u.w).Show()
}

func (u *uiState) applyLoadedRecords(uri fyne.URI, records []chandas.VerseRecord) {
	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = rec.Text
	}
	u.loaded = records
	u.loadedText = strings.Join(texts, "\n\n")
	u.input.SetText(u.loadedText)
	u.appendLog(fmt.Sprintf("ファイル読込: %s (%d件)", filepath.Base(uri.Path()), len(records)))
}

func wrappedHeightFor(text string, colWidth float32) float32 {
	lbl := widget.NewLabel(text)
	lbl.Wrapping = fyne.TextWrapWord
	lbl.Resize(fyne.NewSize(colWidth, 0))
	return lbl.MinSize().Height + 8
}
