package components

import (
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
)

const (
	pulseOff = "○"
	pulseOn  = "●"

	pulseFPS              = UITicksPerSecond
	pulseAngularFrequency = 6.0
	pulseDampingRatio     = 0.8

	// one beat per second: on for 3 ticks, off for the rest
	pulsePeriodTicks = UITicksPerSecond
	pulseOnTicks     = 3

	pulseFrameThreshold = 0.4
)

// Pulse animates the live indicator while frames are flowing
type Pulse struct {
	spring   harmonica.Spring
	position float64
	velocity float64
	active   bool
	tick     int
}

// NewPulse creates an inactive pulse
func NewPulse() *Pulse {
	return &Pulse{
		spring: harmonica.NewSpring(harmonica.FPS(pulseFPS), pulseAngularFrequency, pulseDampingRatio),
	}
}

// Start begins the animation
func (p *Pulse) Start() {
	p.active = true
}

// Stop ends the animation and resets it
func (p *Pulse) Stop() {
	p.active = false
	p.position = 0
	p.velocity = 0
	p.tick = 0
}

// Update advances the animation by one UI tick
func (p *Pulse) Update() {
	if !p.active {
		return
	}

	target := 0.0
	if p.tick < pulseOnTicks {
		target = 1.0
	}

	p.tick = (p.tick + 1) % pulsePeriodTicks
	p.position, p.velocity = p.spring.Update(p.position, p.velocity, target)
}

// Frame returns the glyph for the current spring position
func (p *Pulse) Frame() string {
	if !p.active || p.position < pulseFrameThreshold {
		return pulseOff
	}

	return pulseOn
}

// Render returns the styled frame
func (p *Pulse) Render(style lipgloss.Style) string {
	return style.Render(p.Frame())
}

// IsActive reports whether the animation is running
func (p *Pulse) IsActive() bool {
	return p.active
}
