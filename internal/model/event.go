package model

import "time"

type HeroEvent struct {
	Type   string    `json:"type"`
	HeroID string    `json:"hero_id,omitempty"`
	Hero   *Hero     `json:"hero,omitempty"`
	At     time.Time `json:"at"`
}
