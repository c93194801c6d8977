// Package naming enforces the server's naming rules for databases,
// collections and namespaces before a command ever leaves the client.
package naming

import (
	"fmt"
	"strings"

	cocuchdbErrors "github.com/dan8551/yii2-cocuchdb/pkg/errors"
)

// Characters the server rejects in database names on at least one platform.
const invalidDatabaseChars = `/\. "$*<>:|?` + "\x00"

// maxDatabaseNameLen is the server-side byte limit for database names.
const maxDatabaseNameLen = 63

// ValidateDatabaseName checks a database name against the server's rules.
func ValidateDatabaseName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: database name cannot be empty", cocuchdbErrors.ErrInvalidNamespace)
	}
	if len(name) > maxDatabaseNameLen {
		return fmt.Errorf("%w: database name %q exceeds %d bytes", cocuchdbErrors.ErrInvalidNamespace, name, maxDatabaseNameLen)
	}
	if i := strings.IndexAny(name, invalidDatabaseChars); i >= 0 {
		return fmt.Errorf("%w: database name %q contains %q", cocuchdbErrors.ErrInvalidNamespace, name, name[i])
	}
	return nil
}

// ValidateCollectionName checks a collection name against the server's
// rules. Dots are allowed; "$" is reserved for internal collections.
func ValidateCollectionName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: collection name cannot be empty", cocuchdbErrors.ErrInvalidNamespace)
	}
	if strings.ContainsAny(name, "$\x00") {
		return fmt.Errorf("%w: collection name %q contains a reserved character", cocuchdbErrors.ErrInvalidNamespace, name)
	}
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return fmt.Errorf("%w: collection name %q has a leading or trailing dot", cocuchdbErrors.ErrInvalidNamespace, name)
	}
	if strings.HasPrefix(name, "system.") {
		return fmt.Errorf("%w: collection name %q is in the reserved system namespace", cocuchdbErrors.ErrInvalidNamespace, name)
	}
	return nil
}

// SplitNamespace splits "database.collection" into its validated parts.
// Collection names may themselves contain dots, so only the first dot
// separates.
func SplitNamespace(namespace string) (string, string, error) {
	databaseName, collectionName, ok := strings.Cut(namespace, ".")
	if !ok {
		return "", "", fmt.Errorf("%w: %q has no collection part", cocuchdbErrors.ErrInvalidNamespace, namespace)
	}
	if err := ValidateDatabaseName(databaseName); err != nil {
		return "", "", err
	}
	if err := ValidateCollectionName(collectionName); err != nil {
		return "", "", err
	}
	return databaseName, collectionName, nil
}
