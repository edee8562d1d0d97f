package domain

// A list of built-in config keys supported by the analysis pipeline's core (frontend- and
// binding-specific settings live next to the code which consumes them).

const (
	// ConfigKeyModelID the identifier of the vision-language model to load, i.e. the name of its
	// directory under the models directory
	ConfigKeyModelID = "modelID"
	// ConfigKeyQuantBits the quantization bit-width of the model weights (4 or 8)
	ConfigKeyQuantBits = "quantBits"
	// ConfigKeyTempDir the directory for per-request temporary image files. Defaults to the OS temp directory.
	ConfigKeyTempDir = "tempDir"
	// ConfigKeyLogPath file path where to save the logs
	ConfigKeyLogPath = "logPath"
	// ConfigKeyVisionTemperature how creative the model's answers are. The demo defaults to 0 so that
	// the same image and question always produce the same answer.
	ConfigKeyVisionTemperature = "visionTemperature"
	// ConfigKeyVisionMaxTokens caps the length of a generated answer
	ConfigKeyVisionMaxTokens = "visionMaxTokens"
	// ConfigKeyVisionResponseTimeout when to give up on the model if it takes too long to answer, in milliseconds
	ConfigKeyVisionResponseTimeout = "visionResponseTimeout"
)
