package customer

import (
	"strings"
	"unicode"
)

// IDLength は顧客IDの桁数
const IDLength = 10

// Customer は顧客を表す
type Customer struct {
	ID   string
	Name string
}

// New は検証済みの顧客を作成する
func New(id, name string) (*Customer, error) {
	c := &Customer{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate は顧客の検証を行う
func (c *Customer) Validate() error {
	if err := ValidateID(c.ID); err != nil {
		return err
	}
	return ValidateName(c.Name)
}

// ValidateID は顧客IDが10桁の数字かを検証する
func ValidateID(id string) error {
	if len(id) != IDLength {
		return ErrInvalidID
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return ErrInvalidID
		}
	}
	return nil
}

// ValidateName は氏名が単語構成文字（文字・結合記号・アンダースコア）と空白のみで、数字を含まないかを検証する
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsMark(r), unicode.IsSpace(r), r == '_':
		default:
			return ErrInvalidName
		}
	}
	return nil
}
