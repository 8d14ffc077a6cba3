package datastore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const modelConfigColumns = `id, name, model_type, config, api_endpoint, is_active, created_at, updated_at`

// CreateModelConfig inserts a new model config and returns its ID.
func CreateModelConfig(mc *ModelConfig) (int, error) {
	if DB == nil {
		return 0, errors.New("database connection not initialized")
	}

	query := `
		INSERT INTO model_configs (name, model_type, config, api_endpoint, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	mc.CreatedAt = time.Now()
	mc.UpdatedAt = time.Now()
	mc.IsActive = true

	var id int
	err := DB.QueryRow(
		query,
		mc.Name,
		mc.ModelType,
		rawOrNull(mc.Config),
		mc.APIEndpoint,
		mc.IsActive,
		mc.CreatedAt,
		mc.UpdatedAt,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create model config: %w", err)
	}
	mc.ID = id
	return id, nil
}

// GetModelConfig retrieves a model config by ID.
func GetModelConfig(id int) (*ModelConfig, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	mc := &ModelConfig{}
	var configJSON []byte

	err := DB.QueryRow("SELECT "+modelConfigColumns+" FROM model_configs WHERE id = $1", id).Scan(
		&mc.ID,
		&mc.Name,
		&mc.ModelType,
		&configJSON,
		&mc.APIEndpoint,
		&mc.IsActive,
		&mc.CreatedAt,
		&mc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("model config %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get model config: %w", err)
	}
	mc.Config = rawFromScan(configJSON)

	return mc, nil
}

// ListModelConfigs lists active model configs, optionally filtered by model type.
func ListModelConfigs(modelType string) ([]*ModelConfig, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	var rows *sql.Rows
	var err error
	baseQuery := "SELECT " + modelConfigColumns + " FROM model_configs WHERE is_active = TRUE"

	if modelType != "" {
		rows, err = DB.Query(baseQuery+" AND model_type = $1 ORDER BY name ASC", modelType)
	} else {
		rows, err = DB.Query(baseQuery + " ORDER BY name ASC")
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list model configs: %w", err)
	}
	defer rows.Close()

	configs := []*ModelConfig{}
	for rows.Next() {
		mc := &ModelConfig{}
		var configJSON []byte
		if err := rows.Scan(
			&mc.ID,
			&mc.Name,
			&mc.ModelType,
			&configJSON,
			&mc.APIEndpoint,
			&mc.IsActive,
			&mc.CreatedAt,
			&mc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan model config row: %w", err)
		}
		mc.Config = rawFromScan(configJSON)
		configs = append(configs, mc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for model configs: %w", err)
	}

	return configs, nil
}

// UpdateModelConfig updates specific fields of an existing model config.
func UpdateModelConfig(id int, updateData map[string]interface{}) (*ModelConfig, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	allowedFields := map[string]string{
		"name":         "string",
		"model_type":   "string",
		"config":       "json",
		"api_endpoint": "nullstring",
		"is_active":    "bool",
	}

	var setClauses []string
	var args []interface{}
	argID := 1

	for key, value := range updateData {
		kind, ok := allowedFields[key]
		if !ok {
			continue
		}

		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", key, argID))

		switch kind {
		case "nullstring":
			if strVal, ok := value.(string); ok && strVal != "" {
				args = append(args, sql.NullString{String: strVal, Valid: true})
			} else {
				args = append(args, sql.NullString{Valid: false})
			}
		case "json":
			args = append(args, coerceJSONArg(value))
		default:
			args = append(args, value)
		}
		argID++
	}

	if len(setClauses) == 0 {
		return nil, errors.New("no updatable fields provided")
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now())
	argID++

	query := fmt.Sprintf("UPDATE model_configs SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argID)
	args = append(args, id)

	result, err := DB.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update model config %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected for model config %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("model config %d: %w", id, ErrNotFound)
	}

	return GetModelConfig(id)
}

// DeleteModelConfig deletes a model config by ID.
func DeleteModelConfig(id int) error {
	if DB == nil {
		return errors.New("database connection not initialized")
	}
	result, err := DB.Exec("DELETE FROM model_configs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete model config %d: %w", id, err)
	}
	return checkRowAffected(result, id, "model config")
}
