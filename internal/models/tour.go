package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Tour — канонический тур.
//
// Бэкенд исторически отдаёт два поколения схемы: легаси
// (name/image/price-строкой вида "$120") и текущее
// (title/imageUrl/price-числом). Вместо разбросанных по коду
// optional-фолбэков нормализация выполняется один раз при декодировании —
// дальше весь клиентский код работает только с канонической формой.
type Tour struct {
	ID          string
	Title       string
	ImageURL    string
	Description string
	Price       float64
	CityID      string
	CategoryID  string
	Rating      float64
}

// tourWire — объединение обоих поколений схемы.
type tourWire struct {
	ID          string          `json:"id"`
	LegacyID    string          `json:"_id"`
	Title       string          `json:"title"`
	Name        string          `json:"name"`
	ImageURL    string          `json:"imageUrl"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Price       json.RawMessage `json:"price"`
	CityID      string          `json:"cityId"`
	CategoryID  string          `json:"categoryId"`
	Rating      float64         `json:"rating"`
}

func (t *Tour) UnmarshalJSON(data []byte) error {
	var w tourWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	t.ID = firstNonEmpty(w.ID, w.LegacyID)
	t.Title = firstNonEmpty(w.Title, w.Name)
	t.ImageURL = firstNonEmpty(w.ImageURL, w.Image)
	t.Description = w.Description
	t.Price = parsePrice(w.Price)
	t.CityID = w.CityID
	t.CategoryID = w.CategoryID
	t.Rating = w.Rating

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

// parsePrice принимает число или легаси-строку ("120", "$120", "120 USD").
// Нераспознанное значение трактуется как 0: цена — не повод ронять список.
func parsePrice(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}

	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}

	num, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}

	return num
}
