package classifier

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"setlist/internal/logging"
)

// ClassMap maps model output indices to class display names.
type ClassMap map[int]string

// LoadClassMap parses the model vocabulary table. The file is delimited text
// whose first line is a header; each data row carries the numeric class index
// in the first column and the display name in the third. Rows with an
// unparsable index are skipped with a diagnostic rather than aborting setup.
func LoadClassMap(path string, logger *slog.Logger) (ClassMap, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open class map: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	classMap := make(ClassMap)
	header := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read class map: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(record) < 3 {
			logger.Warn("skipping short vocabulary row", logging.Int("columns", len(record)))
			continue
		}
		index, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			logger.Warn("skipping vocabulary row with invalid index",
				logging.String("value", strings.TrimSpace(record[0])))
			continue
		}
		classMap[index] = strings.TrimSpace(record[2])
	}

	if len(classMap) == 0 {
		return nil, fmt.Errorf("class map %s contains no usable rows", path)
	}
	return classMap, nil
}
