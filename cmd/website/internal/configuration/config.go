package configuration

import "github.com/adampresley/configinator"

type Config struct {
	AwsEndpointUrl         string `flag:"awsep" env:"AWS_ENDPOINT_URL" default:"http://localhost:4566" description:"AWS endpoint URL"`
	AwsRegion              string `flag:"awsregion" env:"AWS_REGION" default:"us-central-1" description:"AWS region"`
	AwsAccessKeyId         string `flag:"awsaccesskeyid" env:"AWS_ACCESS_KEY_ID" default:"" description:"AWS access key ID"`
	AwsSecretAccessKey     string `flag:"awssecretaccesskey" env:"AWS_SECRET_ACCESS_KEY" default:"" description:"AWS secret access key"`
	AwsBucket              string `flag:"awsbucket" env:"AWS_BUCKET" default:"anleague" description:"S3 bucket holding highlight clips and sounds"`
	CrowdSoundURL          string `flag:"crowdsound" env:"CROWD_SOUND_URL" default:"/media/sounds/crowd.mp3" description:"URL of the crowd cheer played after a goal. Empty disables it"`
	DSN                    string `flag:"dsn" env:"DSN" default:"file:./data/anleague.db" description:"Data source name"`
	EmailApiKey            string `flag:"emailapikey" env:"EMAIL_API_KEY" default:"" description:"API key for sending emails"`
	FromEmail              string `flag:"fromemail" env:"FROM_EMAIL" default:"noreply@anleague.example.com" description:"Sender address for notifications"`
	FromName               string `flag:"fromname" env:"FROM_NAME" default:"African Nations League" description:"Sender name for notifications"`
	GoalSoundURL           string `flag:"goalsound" env:"GOAL_SOUND_URL" default:"/media/sounds/goal.mp3" description:"URL of the goal sound. Empty disables it"`
	HighlightsFolder       string `flag:"hlf" env:"HIGHLIGHTS_FOLDER" default:"highlights" description:"S3 folder for highlight clips"`
	HighlightThumbnailSize int    `flag:"hlts" env:"HIGHLIGHT_THUMBNAIL_SIZE" default:"240" description:"Longest edge of highlight thumbnails, in pixels"`
	Host                   string `flag:"host" env:"HOST" default:"localhost:8081" description:"The address and port to bind the HTTP server to"`
	LogLevel               string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxCacheWorkers        int    `flag:"mcc" env:"MAX_CACHE_WORKERS" default:"20" description:"Maximum number of concurrent thumbnail workers"`
	MediaFolder            string `flag:"mediafolder" env:"MEDIA_FOLDER" default:"" description:"S3 folder served under /media/"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}
