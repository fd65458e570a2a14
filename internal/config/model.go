// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                        – dotenv values,
//   • `conf/global.yaml`                     – primary static file,
//   • `BODA_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the secrets client *before* validation, so the model never
// stores Vault URIs—only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml`
//     tags unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Platform section
//

// Platform names the deployment's own domains so the host-to-tenant
// mapper can tell tenant hosts from the marketing site.
type Platform struct {
	RootDomain    string `koanf:"root_domain" validate:"required,fqdn"`
	TenantMarker  string `koanf:"tenant_marker"`
	OverrideParam string `koanf:"override_param"`
}

//
// Database section
//

// Database holds the control-plane MySQL DSN.  An empty DSN is allowed:
// the registry then runs in local-cache-only mode from the first boot.
// The DSN may carry a `vault:` password reference.
type Database struct {
	DSN string `koanf:"dsn"`
}

//
// Cache section
//

// Cache configures the Redis slot that keeps the serialized client
// list across restarts and database outages.
type Cache struct {
	Addr     string `koanf:"addr" validate:"required,hostname_port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

//
// Admin section
//

// Admin guards the management API.  PasswordHash is a bcrypt hash; the
// plaintext never appears in config.  May be a `vault:` reference.
type Admin struct {
	User         string `koanf:"user" validate:"required"`
	PasswordHash string `koanf:"password_hash" validate:"required"`
}

//
// Storage section
//

// Storage locates the media root under which tenant gallery buckets are
// provisioned.
type Storage struct {
	MediaRoot string `koanf:"media_root" validate:"required"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or BODA_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // BODA_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Platform Platform `koanf:"platform"`
	Database Database `koanf:"database"`
	Cache    Cache    `koanf:"cache"`
	Admin    Admin    `koanf:"admin"`
	Storage  Storage  `koanf:"storage"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
