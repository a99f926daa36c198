package bestiary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Column positions in the monster table.
const (
	colName       = 0
	colType       = 2
	colArmorClass = 5
	colHitPoints  = 6
	colDexterity  = 8
	minColumns    = 9
)

// LoadCSV builds a Database from a monster table. The first row is a header.
// Rows that fail extraction are skipped, logged at warn level and returned.
//
// Precondition: r and logger must be non-nil.
// Postcondition: Returns a Database containing only complete entries, or an
// error if the stream itself cannot be read.
func LoadCSV(r io.Reader, logger *zap.Logger) (*Database, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return newDatabase(), nil, nil
		}
		return nil, nil, fmt.Errorf("reading bestiary header: %w", err)
	}

	db := newDatabase()
	var skipped []RowError
	row := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped = append(skipped, skip(logger, row, "", err))
				continue
			}
			return nil, nil, fmt.Errorf("reading bestiary row %d: %w", row, err)
		}

		entry, err := entryFromRecord(record)
		if err == nil {
			err = db.add(entry)
		}
		if err != nil {
			name := ""
			if len(record) > colName {
				name = record[colName]
			}
			skipped = append(skipped, skip(logger, row, name, err))
		}
	}
	return db, skipped, nil
}

func skip(logger *zap.Logger, row int, name string, reason error) RowError {
	logger.Warn("skipping bestiary row",
		zap.Int("row", row),
		zap.String("name", name),
		zap.Error(reason),
	)
	return RowError{Row: row, Name: name, Reason: reason}
}

func entryFromRecord(record []string) (Entry, error) {
	if len(record) < minColumns {
		return Entry{}, fmt.Errorf("expected at least %d columns, got %d", minColumns, len(record))
	}
	name := strings.TrimSpace(record[colName])
	if name == "" {
		return Entry{}, errors.New("empty name")
	}
	ac, err := ParseArmorClass(record[colArmorClass])
	if err != nil {
		return Entry{}, err
	}
	roll, err := ParseHealthRoll(record[colHitPoints])
	if err != nil {
		return Entry{}, err
	}
	initMod := 0
	if dex := strings.TrimSpace(record[colDexterity]); dex != "" {
		score, err := strconv.Atoi(dex)
		if err != nil {
			return Entry{}, fmt.Errorf("dex score %q: %w", dex, err)
		}
		initMod = AbilityMod(score)
	}
	return Entry{
		Name:       name,
		Type:       strings.TrimSpace(record[colType]),
		ArmorClass: ac,
		InitMod:    initMod,
		HealthRoll: roll,
	}, nil
}

// ParseArmorClass returns the leading number of a descriptor such as
// "15 (natural armor)".
func ParseArmorClass(desc string) (int, error) {
	fields := strings.Fields(desc)
	if len(fields) == 0 {
		return 0, errors.New("empty armor class")
	}
	ac, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("armor class %q: %w", desc, err)
	}
	return ac, nil
}

// ParseHealthRoll extracts the parenthesized dice expression from a
// descriptor such as "22 (4d8+4)". Spaces inside the parentheses are dropped.
func ParseHealthRoll(desc string) (string, error) {
	open := strings.IndexByte(desc, '(')
	if open < 0 {
		return "", fmt.Errorf("hit points %q: no parenthesized roll", desc)
	}
	end := strings.IndexByte(desc[open:], ')')
	if end < 0 {
		return "", fmt.Errorf("hit points %q: unterminated roll", desc)
	}
	roll := strings.Join(strings.Fields(desc[open+1:open+end]), "")
	if roll == "" {
		return "", fmt.Errorf("hit points %q: empty roll", desc)
	}
	return roll, nil
}
