package config

type Config struct {
	DB        DBConfig        `json:"db"  yaml:"db"`
	Logger    LoggerConfig    `json:"logger"  yaml:"logger"`
	Server    ServerConfig    `json:"server"  yaml:"server"`
	Directory DirectoryConfig `json:"directory"  yaml:"directory"`
	Importer  ImporterConfig  `json:"importer"  yaml:"importer"`
}

type DBConfig struct {
	Host     string `json:"host"  yaml:"host"`
	Port     uint   `json:"port"  yaml:"port"`
	Username string `json:"username"  yaml:"username"`
	Password string `json:"password"  yaml:"password"`
	Database string `json:"database"  yaml:"database"`
}

type ServerConfig struct {
	HttpPort          uint   `json:"httpPort"  yaml:"httpPort"`
	Secret            string `json:"secret"  yaml:"secret"`
	SslEnabled        bool   `json:"sslEnabled"  yaml:"sslEnabled"`
	Key               string `json:"key"  yaml:"key"`
	Cert              string `json:"cert"  yaml:"cert"`
	AuthExpMinute     uint   `json:"authExpMin"  yaml:"authExpMin"`
	AuthRefreshMinute uint   `json:"authExpRefreshMin"  yaml:"authExpRefreshMin"`
}

type LoggerConfig struct {
	Level  string `json:"level"  yaml:"level"`
	Output string `json:"output"  yaml:"output"`
	Path   string `json:"path"  yaml:"path"`
}

// DirectoryConfig holds the LDAP directory connection used to resolve
// assignees to stable identities.
type DirectoryConfig struct {
	Host         string `json:"host"  yaml:"host"`
	Port         uint   `json:"port"  yaml:"port"`
	BaseDN       string `json:"baseDN"  yaml:"baseDN"`
	BindUser     string `json:"bindUser"  yaml:"bindUser"`
	BindPassword string `json:"bindPassword"  yaml:"bindPassword"`
	UseTLS       bool   `json:"useTLS"  yaml:"useTLS"`
	CacheTTLSec  uint   `json:"cacheTTLSec"  yaml:"cacheTTLSec"`
}

// ImporterConfig tunes the import pipeline.
type ImporterConfig struct {
	BatchSize           int  `json:"batchSize"  yaml:"batchSize"`
	TagRetryLimit       int  `json:"tagRetryLimit"  yaml:"tagRetryLimit"`
	SessionRetentionSec uint `json:"sessionRetentionSec"  yaml:"sessionRetentionSec"`
}
