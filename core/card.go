package core

// Card is the immutable descriptor of a playable character card as supplied
// by the external card store. Description is the persona used as the system
// instruction for generation; Goal is the objective the conversation is
// evaluated against. The engine never mutates a card.
type Card struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Goal        string `json:"goal"`
}

// Complete reports whether the card carries everything the engine needs to
// play a turn without consulting the card store.
func (c Card) Complete() bool {
	return c.ID != "" && c.Description != "" && c.Goal != ""
}
