// Copyright 2024-2025 Maykin Media
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func decodeTree(t *testing.T, raw string) map[string]interface{} {
	var tree map[string]interface{}
	assert.NoError(t, json.Unmarshal([]byte(raw), &tree))
	return tree
}

func TestJsonTreeGet(t *testing.T) {
	tree := decodeTree(t, `{
		"identificatie": "ZAAK-2017-0001",
		"zaaktype": {
			"url": "https://catalogi.example.nl/zaaktypen/zt1",
			"omschrijving": "Bouwvergunning"
		},
		"einddatum": null,
		"resultaat": "https://zaken.example.nl/resultaten/r1"
	}`)

	value, ok := JsonTreeGet(tree, "identificatie")
	assert.True(t, ok)
	assert.Equal(t, "ZAAK-2017-0001", value)

	value, ok = JsonTreeGet(tree, "zaaktype.omschrijving")
	assert.True(t, ok)
	assert.Equal(t, "Bouwvergunning", value)

	// null leaves exist but hold nil
	value, ok = JsonTreeGet(tree, "einddatum")
	assert.True(t, ok)
	assert.Nil(t, value)

	_, ok = JsonTreeGet(tree, "zaaktype.missing")
	assert.False(t, ok)
	_, ok = JsonTreeGet(tree, "missing.omschrijving")
	assert.False(t, ok)
	// descending into a string leaf
	_, ok = JsonTreeGet(tree, "resultaat.url")
	assert.False(t, ok)
	_, ok = JsonTreeGet(tree, "")
	assert.False(t, ok)
	_, ok = JsonTreeGet(nil, "identificatie")
	assert.False(t, ok)
}

func TestJsonTreeGetString(t *testing.T) {
	tree := decodeTree(t, `{
		"identificatie": "ZAAK-2017-0001",
		"zaaktype": {"omschrijving": "Bouwvergunning"},
		"count": 3
	}`)

	assert.Equal(t, "ZAAK-2017-0001", JsonTreeGetString(tree, "identificatie"))
	assert.Equal(t, "Bouwvergunning", JsonTreeGetString(tree, "zaaktype.omschrijving"))
	// non-string leaves and misses both collapse to ""
	assert.Equal(t, "", JsonTreeGetString(tree, "count"))
	assert.Equal(t, "", JsonTreeGetString(tree, "zaaktype"))
	assert.Equal(t, "", JsonTreeGetString(tree, "nope"))
}
