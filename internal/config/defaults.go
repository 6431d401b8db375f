package config

const DefaultSeverityPrompt = `### Definitions:
- **Safe**: General discussion, non-sensitive small talk, or emotionally neutral content.
- **Warning**: Gossip, rumors, mild emotional stress, or minor behavioral issues.
- **Critical**: Any content that reflects harmful behavior (e.g., bullying, mental health crisis), unethical/criminal activity (e.g., cheating, substance use), or serious violations of conduct.

### Instruction:
You are an AI assistant analyzing school-related conversations. Given a sentence and its category, determine whether it is Safe, Warning, or Critical.

### Input:
Sentence: "%s"
Category: "%s"

### Task:
Classify the severity of the sentence as one of the following:
- Safe
- Warning
- Critical

Respond with ONLY a JSON object of the form {"severity": "Safe|Warning|Critical", "confidence": <number between 0 and 1>}.

Severity:`

const DefaultRationalePrompt = `You are a helpful assistant that explains why a sentence belonging to Category: %s is flagged as %s.

Sentence: "%s"

Task: Explain clearly why the sentence is flagged under this category without repeating the sentence. Be concise, specific, and objective.

Rationale:`

// Default returns a configuration that works against the OpenAI API once an API key is set.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Embedding: EmbeddingConfig{
			Provider: "openai",
			Model:    "text-embedding-3-small",
		},
		Transcription: TranscriptionConfig{
			Provider:   "openai",
			Model:      "whisper-1",
			Device:     "auto",
			Python:     "python3",
			OutputPath: "outputs/translated_transcript.txt",
		},
		Prompts: Prompts{
			Severity:  DefaultSeverityPrompt,
			Rationale: DefaultRationalePrompt,
		},
		Analysis: AnalysisConfig{
			GeneralCategory: "General Discussions",
			ReportDir:       "outputs",
		},
		Server: ServerConfig{
			Port:        "8080",
			UploadDir:   "temp_audio",
			MaxUploadMB: 50,
		},
		Storage: StorageConfig{
			Path: "data/echofilter.db",
		},
		Concurrency: ConcurrencyConfig{
			Lines: 4,
		},
	}
}
