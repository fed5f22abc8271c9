package prescription

import (
	"errors"
	"fmt"
	"strings"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/errs"
)

// ItemKind tells which provider type can fulfil an item.
type ItemKind int

const (
	UnknownItemKind ItemKind = iota
	LabTest
	Medication
)

func getItemKindStrings() map[ItemKind]string {
	return map[ItemKind]string{
		UnknownItemKind: "Unknown",
		LabTest:         "LabTest",
		Medication:      "Medication",
	}
}

func (k ItemKind) String() string {
	if str, ok := getItemKindStrings()[k]; ok {
		return str
	}
	return "Unknown"
}

func (k ItemKind) Validate() error {
	if k != LabTest && k != Medication {
		return errs.NewValueIsInvalidErrorWithCause("item kind", fmt.Errorf("%d is not a valid item kind", k))
	}
	return nil
}

// ParseItemKind is the inverse of String for valid kinds.
func ParseItemKind(s string) (ItemKind, error) {
	for kind, str := range getItemKindStrings() {
		if kind != UnknownItemKind && strings.EqualFold(str, s) {
			return kind, nil
		}
	}
	return UnknownItemKind, errs.NewValueIsInvalidErrorWithCause("item kind", fmt.Errorf("%q is not a valid item kind", s))
}

// Item references a catalogue test or medication. ReferenceID is the catalogue code
// (e.g. a LOINC test code or a medication SKU) that lab results are matched against.
type Item struct {
	id           kernel.UUID
	kind         ItemKind
	referenceID  string
	name         string
	instructions string
}

func NewItem(id kernel.UUID, kind ItemKind, referenceID, name, instructions string) (Item, error) {
	var item Item
	if err := errors.Join(
		item.setID(id),
		item.setKind(kind),
		item.setReferenceID(referenceID),
		item.setName(name),
	); err != nil {
		return Item{}, err
	}
	item.instructions = strings.TrimSpace(instructions)
	return item, nil
}

func (i Item) ID() kernel.UUID {
	return i.id
}

func (i Item) Kind() ItemKind {
	return i.kind
}

func (i Item) ReferenceID() string {
	return i.referenceID
}

func (i Item) Name() string {
	return i.name
}

func (i Item) Instructions() string {
	return i.instructions
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setKind(kind ItemKind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	i.kind = kind
	return nil
}

func (i *Item) setReferenceID(referenceID string) error {
	referenceID = strings.TrimSpace(referenceID)
	if referenceID == "" {
		return errs.NewValueIsRequiredError("item reference")
	}
	i.referenceID = referenceID
	return nil
}

func (i *Item) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("item name")
	}
	i.name = name
	return nil
}
