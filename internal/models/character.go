package models

// Character is the avatar a participant picks when joining.
type Character string

const (
	CharacterMario  Character = "mario"
	CharacterLuigi  Character = "luigi"
	CharacterToad   Character = "toad"
	CharacterPeach  Character = "peach"
	CharacterBowser Character = "bowser"
	CharacterYoshi  Character = "yoshi"
)

// DefaultCharacter is assigned when a client sends an unknown avatar.
const DefaultCharacter = CharacterMario

var validCharacters = map[Character]bool{
	CharacterMario:  true,
	CharacterLuigi:  true,
	CharacterToad:   true,
	CharacterPeach:  true,
	CharacterBowser: true,
	CharacterYoshi:  true,
}

// IsValid reports whether c is one of the known avatars.
func (c Character) IsValid() bool {
	return validCharacters[c]
}

// NormalizeCharacter maps unknown avatar values to the default.
func NormalizeCharacter(s string) Character {
	c := Character(s)
	if !c.IsValid() {
		return DefaultCharacter
	}
	return c
}
