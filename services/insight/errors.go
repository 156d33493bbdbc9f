// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package insight

import "errors"

// Sentinel errors for the Insight service.
var (
	// ErrSnapshotNotLoaded indicates no graph snapshot has been loaded yet.
	ErrSnapshotNotLoaded = errors.New("snapshot not loaded")

	// ErrNoDataSource indicates no data path was configured or supplied.
	ErrNoDataSource = errors.New("no data source configured")

	// ErrUnknownNodeType indicates a request named an entity type the
	// schema does not define.
	ErrUnknownNodeType = errors.New("unknown entity type")

	// ErrUnknownRelType indicates a request named a relationship type
	// the schema does not define.
	ErrUnknownRelType = errors.New("unknown relationship type")

	// ErrUnknownDirection indicates a request named an invalid
	// traversal direction.
	ErrUnknownDirection = errors.New("unknown direction")
)
