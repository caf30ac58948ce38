// Package names проверяет и нормализует имена, поданные для поминовения.
package names

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

// ErrInvalidName содержит текст ошибки для имени, не прошедшего проверку.
const ErrInvalidName = "имя должно содержать только кириллические буквы, пробелы, дефис и точку"

// Имя начинается с буквы; слова разделены пробелом, дефисом или точкой.
var namePattern = regexp.MustCompile(`^[а-яА-ЯёЁ]+(?:[ \-.]+[а-яА-ЯёЁ]*)*$`)

// Validate сообщает, допустимо ли имя.
func Validate(name string) bool {
	return namePattern.MatchString(name)
}

// ChurchForm приводит имя к единому виду: схлопывает пробелы,
// каждое слово и часть через дефис начинается с заглавной буквы.
func ChurchForm(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		parts := strings.Split(w, "-")
		for j, p := range parts {
			parts[j] = capitalize(p)
		}
		words[i] = strings.Join(parts, "-")
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	r := []rune(strings.ToLower(s))
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Process обрезает пробелы, отбрасывает пустые записи и помечает каждое имя
// признаком валидности. Результат готов к пакетной вставке.
func Process(input []models.NameInput) []models.TrebaName {
	out := make([]models.TrebaName, 0, len(input))
	for _, in := range input {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			continue
		}
		kind := strings.TrimSpace(in.Type)
		if kind == "" {
			kind = models.NameTypeHealth
		}
		rec := models.TrebaName{Name: name, Type: kind}
		if Validate(name) {
			rec.IsValid = true
			rec.ChurchForm = ChurchForm(name)
		} else {
			rec.ValidationError = ErrInvalidName
		}
		out = append(out, rec)
	}
	return out
}

// CountValid возвращает количество валидных имен.
func CountValid(processed []models.TrebaName) int {
	n := 0
	for _, p := range processed {
		if p.IsValid {
			n++
		}
	}
	return n
}
