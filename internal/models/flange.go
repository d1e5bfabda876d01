package models

import (
	"strings"
	"time"
)

// JointSpec holds the technical attributes of a bolted joint. Every value is
// free text: the field crews write things like "150#" or `3/4"`.
type JointSpec struct {
	FlangeNo              string `gorm:"column:flange_no;size:100" json:"flangeId"` // external tag from the isometric
	Tag                   string `gorm:"column:tag;size:100;index" json:"tag"`
	Isometric             string `gorm:"column:isometric" json:"isometric"`
	PID                   string `gorm:"column:pid" json:"pid"`
	Rating                string `gorm:"column:rating" json:"rating"`
	Type                  string `gorm:"column:type" json:"type"`
	Gasket                string `gorm:"column:gasket" json:"gasket"`
	Material              string `gorm:"column:material" json:"material"`
	Size                  string `gorm:"column:size" json:"size"`
	BoltSize              string `gorm:"column:bolt_size" json:"boltSize"`
	KFactor               string `gorm:"column:k_factor" json:"kFactor"`
	YieldStrength         string `gorm:"column:yield_strength" json:"yieldStrength"`
	Torque                string `gorm:"column:torque" json:"torque"`
	System                string `gorm:"column:system" json:"system"`
	Facility              string `gorm:"column:facility" json:"facility"`
	TorqueOrTension       string `gorm:"column:torque_or_tension" json:"torqueortension"`
	EquipmentManufacturer string `gorm:"column:equipment_manufacturer" json:"equipmentManufacturer"`
	EquipmentQuantity     string `gorm:"column:equipment_quantity" json:"equipmentQuantity"`
	WrenchSize            string `gorm:"column:wrench_size" json:"wrenchSize"`
	StudSpec              string `gorm:"column:stud_spec" json:"studSpec"`
	NutSpec               string `gorm:"column:nut_spec" json:"nutSpec"`
	NutSize               string `gorm:"column:nut_size" json:"nutSize"`
	Washer                string `gorm:"column:washer" json:"washer"`
	Lubricant             string `gorm:"column:lubricant" json:"lubricant"`
}

// TorquePasses records the torque applied on each pass, as text.
type TorquePasses struct {
	Pass1     string `gorm:"column:pass1" json:"Pass1"`
	Pass2     string `gorm:"column:pass2" json:"Pass2"`
	Pass3     string `gorm:"column:pass3" json:"Pass3"`
	RoundPass string `gorm:"column:roundpass" json:"roundpass"`
	FinalPass string `gorm:"column:finalpass" json:"finalpass"`
}

// Pass returns the recorded value for pass n (1..3).
func (p TorquePasses) Pass(n int) string {
	switch n {
	case 1:
		return p.Pass1
	case 2:
		return p.Pass2
	case 3:
		return p.Pass3
	}
	return ""
}

func (p *TorquePasses) SetPass(n int, value string) bool {
	switch n {
	case 1:
		p.Pass1 = value
	case 2:
		p.Pass2 = value
	case 3:
		p.Pass3 = value
	default:
		return false
	}
	return true
}

// SignoffEntry is one party's attestation for one stage.
type SignoffEntry struct {
	Name      string `gorm:"column:name" json:"name"`
	Signature string `gorm:"column:signature;type:text" json:"signature"`
	Date      string `gorm:"column:date" json:"date"`
	Company   string `gorm:"column:company" json:"company"`
	Notes     string `gorm:"column:notes;type:text" json:"notes"`
}

func (e SignoffEntry) IsEmpty() bool {
	return strings.TrimSpace(e.Name) == "" &&
		strings.TrimSpace(e.Signature) == "" &&
		strings.TrimSpace(e.Date) == "" &&
		strings.TrimSpace(e.Company) == "" &&
		strings.TrimSpace(e.Notes) == ""
}

// Completed is the de-facto "stage done" signal: somebody signed with a date.
func (e SignoffEntry) Completed() bool {
	return strings.TrimSpace(e.Name) != "" && strings.TrimSpace(e.Date) != ""
}

type Flange struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	WorkpackID uint `gorm:"index;not null" json:"workpackId"`
	// filled from the workpacks join on reads, never stored
	WorkpackName string `gorm:"->;-:migration" json:"workpackName"`

	JointSpec

	Comments  string `gorm:"type:text" json:"comments"`
	Status    Stage  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ToolCerts string `gorm:"column:toolcerts" json:"toolcerts"`

	TorquePasses

	Breakout  SignoffEntry `gorm:"embedded;embeddedPrefix:breakout_" json:"breakout"`
	Assembled SignoffEntry `gorm:"embedded;embeddedPrefix:assembled_" json:"assembled"`
	Tightened SignoffEntry `gorm:"embedded;embeddedPrefix:tightened_" json:"tightened"`
	QC        SignoffEntry `gorm:"embedded;embeddedPrefix:qc_" json:"qc"`
	Client    SignoffEntry `gorm:"embedded;embeddedPrefix:client_" json:"client"`
}

// Signoff returns the slot for stage, or nil when the stage has none.
func (f *Flange) Signoff(stage Stage) *SignoffEntry {
	switch stage {
	case StageBreakout:
		return &f.Breakout
	case StageAssembled:
		return &f.Assembled
	case StageTightened:
		return &f.Tightened
	case StageQC:
		return &f.QC
	case StageClient:
		return &f.Client
	}
	return nil
}

// CurrentStage reads Status, treating the blank status of legacy rows as pending.
func (f *Flange) CurrentStage() Stage {
	if f.Status == "" {
		return StagePending
	}
	return f.Status
}
