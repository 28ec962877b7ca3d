package fix

import (
	"fmt"
	"os"

	"csorder/internal/source"
)

// WriteFile stores content for file on disk, restoring the line endings and
// BOM stripped at load time. The file mode is kept.
func WriteFile(file *source.File, content []byte) error {
	if file == nil {
		return fmt.Errorf("fix: write: nil file")
	}
	if file.Flags&source.FileVirtual != 0 {
		return fmt.Errorf("fix: write %s: file is virtual", file.Path)
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(file.Path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(file.Path, source.Restore(content, file.Flags), mode); err != nil {
		return fmt.Errorf("write %s: %w", file.Path, err)
	}
	return nil
}
