// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package native

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_String(t *testing.T) {
	assert.Equal(t, "ok", CodeOK.String())
	assert.Equal(t, "allocation failure", CodeAlloc.String())
	assert.Equal(t, "rom load failure", CodeLoad.String())
	assert.Equal(t, "state failure", CodeState.String())
	assert.Equal(t, "runtime exception", CodeRuntime.String())
	assert.Equal(t, "unknown failure", CodeUnknown.String())
	assert.Equal(t, "unknown failure", Code(42).String())
}

func TestError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &Error{Op: "loadROM", Code: CodeLoad})
	assert.Contains(t, err.Error(), "native: loadROM: rom load failure (code 2)")

	var nerr *Error
	assert.True(t, errors.As(err, &nerr))
	assert.Equal(t, "loadROM", nerr.Op)
}
