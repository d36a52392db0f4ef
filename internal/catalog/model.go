package catalog

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxTextLength = 100

// ErrInvalidRecord wraps the field errors of a record rejected before insert.
var ErrInvalidRecord = errors.New("invalid record")

type BaseModel struct {
	ID        string    `gorm:"primaryKey;autoIncrement:false;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func genId() string {
	newUUID, _ := uuid.NewRandom()
	return newUUID.String()
}

func (b *BaseModel) assignID() {
	if b.ID == "" {
		b.ID = genId()
	}
}

type Author struct {
	BaseModel
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	DateOfBirth *datatypes.Date `json:"date_of_birth"`
}

type Book struct {
	BaseModel
	Title       string         `gorm:"type:varchar(100);not null" json:"title"`
	AuthorID    string         `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author      Author         `gorm:"constraint:OnDelete:CASCADE" json:"author"`
	Genre       string         `gorm:"type:varchar(100);not null" json:"genre"`
	PublishDate datatypes.Date `gorm:"not null" json:"publish_date"`
}

func (a Author) String() string {
	return a.Name
}

func (b Book) String() string {
	return b.Title
}

func (a Author) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required, validation.RuneLength(1, maxTextLength)),
	)
}

func (b Book) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Title, validation.Required, validation.RuneLength(1, maxTextLength)),
		validation.Field(&b.AuthorID, validation.Required),
		validation.Field(&b.Genre, validation.Required, validation.RuneLength(1, maxTextLength)),
		validation.Field(&b.PublishDate, validation.By(requiredDate)),
	)
}

func requiredDate(value interface{}) error {
	d, _ := value.(datatypes.Date)
	if time.Time(d).IsZero() {
		return validation.ErrRequired
	}
	return nil
}

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	a.assignID()
	if err := a.Validate(); err != nil {
		return fmt.Errorf("%w: author: %w", ErrInvalidRecord, err)
	}
	return nil
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	b.assignID()
	if err := b.Validate(); err != nil {
		return fmt.Errorf("%w: book: %w", ErrInvalidRecord, err)
	}
	return nil
}

// DateOf drops the clock and zone from t, keeping its calendar day.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// NewDate is DateOf for a literal calendar day.
func NewDate(year int, month time.Month, day int) datatypes.Date {
	return datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Migrate creates or updates the authors and books tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Author{}, &Book{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
