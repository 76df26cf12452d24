package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MineView holds the data shown for a selected mine.
type MineView struct {
	ID          uint64
	Health      float64
	MaxHealth   float64
	Speed       float64
	Stunned     bool
	ReviveIn    float64 // seconds until the stun ends
	Spikes      bool
	HasTarget   bool
	Target      uint64
	TargetDist  float64
	Waypoints   int
	Cursor      int
	SoundVolume float64

	Retargets   int
	Replans     int
	Attacks     int
	Kills       int
	DamageDealt float64

	DriveScale     float64
	CorrectionGain float64
}

// EntityView holds the data shown for a selected player or prop.
type EntityView struct {
	ID        uint64
	Kind      string
	Health    float64
	MaxHealth float64
	Speed     float64
}

// InspectorAction reports what the user did in the panel this frame.
type InspectorAction struct {
	GainsChanged   bool
	DriveScale     float64
	CorrectionGain float64
	ApplyAll       bool // Copy the gains to every mine
	Stun           bool
	Revive         bool
}

// GainLimits bound the gain sliders.
type GainLimits struct {
	MaxDriveScale     float32
	MaxCorrectionGain float32
}

func mineView(d any) *MineView { return d.(*MineView) }

var mineSections = []SectionDescriptor{
	{
		ID:    "state",
		Title: "State",
		Fields: []FieldDescriptor{
			{ID: "health", Label: "Health", Widget: WidgetHealthBar,
				Getter:    func(d any) float32 { return float32(mineView(d).Health) },
				MaxGetter: func(d any) float32 { return float32(mineView(d).MaxHealth) }},
			{ID: "speed", Label: "Speed", Widget: WidgetText, Format: "%.0f",
				Getter: func(d any) float32 { return float32(mineView(d).Speed) }},
			{ID: "stunned", Label: "Stunned", Widget: WidgetFlag, Color: rl.SkyBlue,
				FlagGetter: func(d any) bool { return mineView(d).Stunned }},
			{ID: "revive", Label: "Revive in", Widget: WidgetText, Format: "%.1fs",
				Visible: func(d any) bool { return mineView(d).Stunned },
				Getter:  func(d any) float32 { return float32(mineView(d).ReviveIn) }},
			{ID: "spikes", Label: "Spikes", Widget: WidgetFlag, Color: rl.Red,
				FlagGetter: func(d any) bool { return mineView(d).Spikes }},
			{ID: "sound", Label: "Roll volume", Widget: WidgetBar, Range: DefaultRange(),
				Getter: func(d any) float32 { return float32(mineView(d).SoundVolume) }},
		},
	},
	{
		ID:    "pursuit",
		Title: "Pursuit",
		Fields: []FieldDescriptor{
			{ID: "target", Label: "Target", Widget: WidgetText,
				TextGetter: func(d any) string {
					v := mineView(d)
					if !v.HasTarget {
						return "none"
					}
					return fmt.Sprintf("#%d at %.0f", v.Target, v.TargetDist)
				}},
			{ID: "path", Label: "Waypoint", Widget: WidgetText,
				TextGetter: func(d any) string {
					v := mineView(d)
					if v.Waypoints == 0 {
						return "-"
					}
					return fmt.Sprintf("%d/%d", v.Cursor, v.Waypoints)
				}},
		},
	},
	{
		ID:    "lifetime",
		Title: "Lifetime",
		Fields: []FieldDescriptor{
			{ID: "retargets", Label: "Retargets", Widget: WidgetText, Format: "%.0f",
				Getter: func(d any) float32 { return float32(mineView(d).Retargets) }},
			{ID: "replans", Label: "Replans", Widget: WidgetText, Format: "%.0f",
				Getter: func(d any) float32 { return float32(mineView(d).Replans) }},
			{ID: "attacks", Label: "Attacks", Widget: WidgetText, Format: "%.0f",
				Getter: func(d any) float32 { return float32(mineView(d).Attacks) }},
			{ID: "kills", Label: "Kills", Widget: WidgetText, Format: "%.0f",
				Getter: func(d any) float32 { return float32(mineView(d).Kills) }},
			{ID: "damage", Label: "Damage", Widget: WidgetText, Format: "%.0f",
				Getter: func(d any) float32 { return float32(mineView(d).DamageDealt) }},
		},
	},
}

// Inspector renders the selection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
	limits   GainLimits
}

const (
	minePanelHeight   = 430
	entityPanelHeight = 110
)

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32, limits GainLimits) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		limits:   limits,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Bounds returns the screen area the mine panel covers.
func (ins *Inspector) Bounds() rl.Rectangle {
	return rl.Rectangle{X: float32(ins.x), Y: float32(ins.y), Width: float32(ins.width), Height: minePanelHeight}
}

// DrawMine renders a mine's state and the gain controls.
func (ins *Inspector) DrawMine(v *MineView) InspectorAction {
	r := ins.renderer
	pad := r.Theme.Padding
	x := ins.x + pad
	y := ins.y + pad
	w := ins.width - 2*pad

	r.DrawPanel(ins.x, ins.y, ins.width, minePanelHeight)
	rl.DrawText(fmt.Sprintf("Rollermine #%d", v.ID), x, y, 18, rl.White)
	y += 26

	for _, sd := range mineSections {
		y = r.DrawSection(x, y, sd, v, w)
	}

	act := InspectorAction{DriveScale: v.DriveScale, CorrectionGain: v.CorrectionGain}
	y = r.DrawSectionHeader(x, y, "Steering")

	sliderW := float32(w - 70)
	rl.DrawText("Drive scale", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += 14
	drive := gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: sliderW, Height: 16},
		"", "",
		float32(v.DriveScale), 0, ins.limits.MaxDriveScale,
	)
	rl.DrawText(fmt.Sprintf("%.2f", v.DriveScale), x+int32(sliderW)+8, y+2, r.Theme.FontSize, r.Theme.ValueColor)
	y += 22

	rl.DrawText("Correction gain", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += 14
	corr := gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: sliderW, Height: 16},
		"", "",
		float32(v.CorrectionGain), 0, ins.limits.MaxCorrectionGain,
	)
	rl.DrawText(fmt.Sprintf("%.0f", v.CorrectionGain), x+int32(sliderW)+8, y+2, r.Theme.FontSize, r.Theme.ValueColor)
	y += 26

	if drive != float32(v.DriveScale) || corr != float32(v.CorrectionGain) {
		act.GainsChanged = true
		act.DriveScale = float64(drive)
		act.CorrectionGain = float64(corr)
	}

	bw := float32(w-10) / 3
	act.ApplyAll = gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: bw, Height: 24}, "Apply to all")
	act.Stun = gui.Button(rl.Rectangle{X: float32(x) + bw + 5, Y: float32(y), Width: bw, Height: 24}, "Stun")
	act.Revive = gui.Button(rl.Rectangle{X: float32(x) + 2*(bw+5), Y: float32(y), Width: bw, Height: 24}, "Revive")
	return act
}

// DrawEntity renders a player or prop.
func (ins *Inspector) DrawEntity(v EntityView) {
	r := ins.renderer
	pad := r.Theme.Padding
	x := ins.x + pad
	y := ins.y + pad
	w := ins.width - 2*pad

	r.DrawPanel(ins.x, ins.y, ins.width, entityPanelHeight)
	rl.DrawText(fmt.Sprintf("%s #%d", v.Kind, v.ID), x, y, 18, rl.White)
	y += 26
	y = r.DrawHealthBar(x, y, "Health", float32(v.Health), float32(v.MaxHealth), w)
	r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%.0f", v.Speed))
}

// DrawTooltip draws a one-line label next to the cursor.
func DrawTooltip(sx, sy int32, text string) {
	tw := rl.MeasureText(text, 12)
	rl.DrawRectangle(sx+12, sy-4, tw+10, 20, rl.Color{R: 20, G: 25, B: 30, A: 220})
	rl.DrawText(text, sx+17, sy, 12, rl.RayWhite)
}
