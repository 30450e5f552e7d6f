package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/puja9882/multimodal-parkinsons-detection/internal/config"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/logging"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/model"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/pipeline"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/scoring"
)

type options struct {
	cfgFile     string
	imgPath     string
	wavPath     string
	age         string
	drawWeight  float64
	voiceWeight float64
}

// Predictor is satisfied by *pipeline.Pipeline.
type Predictor interface {
	Predict(req pipeline.Request) (*pipeline.Prediction, error)
}

// loader builds the predictor from configuration. Tests replace it.
var loader = func(cfg *config.Config) (Predictor, func(), error) {
	models, err := model.Load(cfg)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.FromModels(models), models.Close, nil
}

// Execute runs the root command against os.Args.
func Execute() error {
	return newRootCmd(os.Stdout).Execute()
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}
	defaults := scoring.DefaultWeights()

	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Parkinson's screening from a spiral drawing and a voice recording",
		Long: `screen scores a spiral drawing with the drawing model and a WAV recording
with the voice model, then combines both probabilities into one decision.

Examples:
  # Basic screening
  screen --img spiral.png --wav voice.wav

  # With age advisory and custom weights
  screen --img spiral.png --wav voice.wav --age 72 --draw-weight 0.6 --voice-weight 0.4
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, out)
		},
	}

	cmd.Flags().StringVar(&opts.cfgFile, "config", "", "config file (default: CONFIG_FILE or environment only)")
	cmd.Flags().StringVar(&opts.imgPath, "img", "", "path to drawing image")
	cmd.Flags().StringVar(&opts.wavPath, "wav", "", "path to wav file")
	cmd.Flags().StringVar(&opts.age, "age", "", "age of subject (optional)")
	cmd.Flags().Float64Var(&opts.drawWeight, "draw-weight", defaults.Drawing, "weight of the drawing model (default from DRAW_WEIGHT)")
	cmd.Flags().Float64Var(&opts.voiceWeight, "voice-weight", defaults.Voice, "weight of the voice model (default from VOICE_WEIGHT)")
	_ = cmd.MarkFlagRequired("img")
	_ = cmd.MarkFlagRequired("wav")

	return cmd
}

func run(cmd *cobra.Command, opts *options, out io.Writer) error {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Init(config.LoggerConfig{Level: cfg.Logger.Level, Format: "text"}, os.Stderr)

	weights := scoring.Weights{Drawing: cfg.Scoring.DrawWeight, Voice: cfg.Scoring.VoiceWeight}
	if cmd.Flags().Changed("draw-weight") {
		weights.Drawing = opts.drawWeight
	}
	if cmd.Flags().Changed("voice-weight") {
		weights.Voice = opts.voiceWeight
	}

	fmt.Fprintln(out, "MODEL PATHS:")
	fmt.Fprintln(out, " Drawing:", cfg.Drawing.ModelPath)
	fmt.Fprintln(out, " Voice model:", cfg.Voice.ModelPath)
	fmt.Fprintln(out, " Voice scaler:", cfg.Voice.ScalerPath)

	predictor, closeFn, err := loader(cfg)
	if err != nil {
		return fmt.Errorf("load models: %w", err)
	}
	defer closeFn()

	rule := scoring.CLIAgeRule()
	rule.Min, rule.Max = cfg.Scoring.CLIAge.Min, cfg.Scoring.CLIAge.Max

	pred, err := predictor.Predict(pipeline.Request{
		ImagePath: opts.imgPath,
		VoicePath: opts.wavPath,
		Age:       opts.age,
		Weights:   weights,
		AgeRule:   &rule,
	})
	if err != nil {
		return err
	}
	return pred.WriteReport(out)
}
