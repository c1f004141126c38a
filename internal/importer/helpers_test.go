// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package importer

import (
	"time"

	"github.com/sirseerhq/pgn-to-sqlite/internal/config"
)

func defaultHTTP() config.HTTPConfig {
	cfg := config.DefaultConfig().HTTP
	cfg.Timeout = 5 * time.Second
	return cfg
}
