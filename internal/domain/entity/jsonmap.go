package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONMap - пользовательский тип для произвольных JSONB-полей (details, metadata).
// Ядро не интерпретирует содержимое, оно сериализуется как есть.
type JSONMap map[string]interface{}

// Scan реализует интерфейс sql.Scanner для JSONMap
// Используется GORM для чтения JSONB данных из базы
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*m = JSONMap{}
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// Value реализует интерфейс driver.Valuer для JSONMap
// Используется GORM для записи JSONMap в JSONB в базе
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil || len(m) == 0 {
		return []byte("{}"), nil // Возвращаем пустой JSON объект вместо null
	}
	return json.Marshal(m)
}
