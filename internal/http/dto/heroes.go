package dto

import "hero_store/internal/model"

type CreateHeroRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r CreateHeroRequest) ToModel() model.CreateHero {
	return model.CreateHero{Name: r.Name, Description: r.Description}
}

// UpdateHeroRequest distinguishes an omitted field (nil) from an empty one.
type UpdateHeroRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (r UpdateHeroRequest) ToModel() model.HeroPatch {
	return model.HeroPatch{Name: r.Name, Description: r.Description}
}

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
