// Package all wires every built-in storage backend into the factory.
//
// Importing it (blank) runs the backends' init functions, making the
// "postgres" and "sqlite" kinds available through storage.New. Binaries that
// want a subset can blank-import the individual backend packages instead.
package all

import (
	_ "playetl/internal/storage/postgres"
	_ "playetl/internal/storage/sqlite"
)
