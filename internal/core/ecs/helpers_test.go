package ecs

import "go.uber.org/zap"

var (
	alphaType = &UnitType{Name: "Test.Alpha", Layer: 10}
	betaType  = &UnitType{Name: "Test.Beta", Layer: 5}
	gammaType = &UnitType{Name: "Test.Gamma", Layer: 5}
)

// journal records hook calls across units in call order.
type journal struct {
	calls []string
}

func (j *journal) add(s string) { j.calls = append(j.calls, s) }

type probeUnit struct {
	Base
	j            *journal
	tag          string
	activeAtInit bool
	onUpdate     func()
	onClear      func()
	veto         bool
}

func (p *probeUnit) Initialize() {
	p.activeAtInit = p.IsActive()
	p.j.add(p.tag + ".init")
}
func (p *probeUnit) FinalizeEntity() { p.j.add(p.tag + ".finalize") }
func (p *probeUnit) Draw() { p.j.add(p.tag + ".draw") }
func (p *probeUnit) OnInputAction(a string) { p.j.add(p.tag + ".input:" + a) }
func (p *probeUnit) Clear() {
	p.j.add(p.tag + ".clear")
	if p.onClear != nil {
		p.onClear()
	}
}
func (p *probeUnit) BuildProperties(Properties) { p.j.add(p.tag + ".props") }
func (p *probeUnit) Update() {
	p.j.add(p.tag + ".update")
	if p.onUpdate != nil {
		p.onUpdate()
	}
}
func (p *probeUnit) OnEvent(name string, _ ...any) bool {
	p.j.add(p.tag + ".event:" + name)
	return !p.veto
}

type alphaUnit struct{ probeUnit }
type betaUnit struct{ probeUnit }
type gammaUnit struct{ probeUnit }

func (*alphaUnit) Type() *UnitType { return alphaType }
func (*betaUnit) Type() *UnitType { return betaType }
func (*gammaUnit) Type() *UnitType { return gammaType }

func newAlpha(j *journal) *alphaUnit { return &alphaUnit{probeUnit{j: j, tag: "alpha"}} }
func newBeta(j *journal) *betaUnit { return &betaUnit{probeUnit{j: j, tag: "beta"}} }
func newGamma(j *journal) *gammaUnit { return &gammaUnit{probeUnit{j: j, tag: "gamma"}} }

// bareUnit implements no hooks at all.
type bareUnit struct{ Base }

var bareType = &UnitType{Name: "Test.Bare"}

func (*bareUnit) Type() *UnitType { return bareType }

func newTestRegistry() *Registry {
	return NewRegistry(zap.NewNop())
}
