package domain

// Inbound client intents. Tags are checked by the session adapter before
// anything reaches the registry.

type SetNameCommand struct {
	Name string `json:"name" validate:"max=200"`
}

type JoinRoomCommand struct {
	Code string `json:"code" validate:"required,len=4,alphanum"`
}

type PlaceGameCommand struct {
	Position int `json:"position" validate:"min=0"`
}

// UpdateSettingsCommand only applies fields that are set.
type UpdateSettingsCommand struct {
	WinCondition *int `json:"winCondition"`
}
