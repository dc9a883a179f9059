package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"
	orchestration "github.com/koscakluka/ema-festdesk/core"
	"github.com/koscakluka/ema-festdesk/core/answers"
	"github.com/koscakluka/ema-festdesk/core/audio/miniaudio"
	"github.com/koscakluka/ema-festdesk/core/llms/inference"
	sttdeepgram "github.com/koscakluka/ema-festdesk/core/speechtotext/deepgram"
	ttsdeepgram "github.com/koscakluka/ema-festdesk/core/texttospeech/deepgram"
	"github.com/koscakluka/ema-festdesk/core/topics"
	"github.com/koscakluka/ema-festdesk/internal/config"
)

// Options are the command line flags, they override the environment.
type Options struct {
	EnvFile   string `long:"env-file" default:".env" description:"dotenv file with service credentials"`
	TypedOnly bool   `long:"typed-only" description:"disable microphone and speaker, answer typed questions only"`
	Programme string `long:"programme" description:"festival programme YAML file"`
	Locale    string `long:"locale" description:"speech locale, e.g. en-IN"`
	Voice     string `long:"voice" description:"Deepgram Aura voice"`
}

func main() {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Println(err)
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opts *Options) error {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return err
	}
	if opts.Locale != "" {
		cfg.Locale = opts.Locale
	}
	if opts.Programme != "" {
		cfg.ProgrammeFile = opts.Programme
	}

	festival := topics.DefaultFestival()
	if cfg.ProgrammeFile != "" {
		if festival, err = topics.LoadFestival(cfg.ProgrammeFile); err != nil {
			return err
		}
	}

	service, err := inference.NewClient(cfg.InferenceEndpoint, cfg.InferenceAPIKey, cfg.InferenceModel)
	if err != nil {
		return fmt.Errorf("failed to set up answer service: %w", err)
	}
	answerer, err := answers.NewClient(service, topics.NewGate(festival),
		answers.WithMaxRetries(cfg.MaxRetries),
		answers.WithBackoff(cfg.Backoff),
	)
	if err != nil {
		return fmt.Errorf("failed to set up answer client: %w", err)
	}

	var (
		controller *orchestration.Controller
		capture    orchestration.CaptureDevice
		playback   orchestration.PlaybackDevice
	)
	voiceEnabled := !opts.TypedOnly && cfg.VoiceEnabled()
	if voiceEnabled {
		device, err := miniaudio.NewDevice()
		if err != nil {
			return err
		}
		defer device.Close()

		captureDevice, err := sttdeepgram.NewCaptureDevice(cfg.DeepgramAPIKey, device,
			sttdeepgram.WithEncoding(device.EncodingInfo()),
			sttdeepgram.WithTranscriptCallback(func(transcript string) {
				controller.UpdateTranscript(transcript)
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to set up speech recognition: %w", err)
		}
		capture = captureDevice

		playbackOpts := []ttsdeepgram.PlaybackOption{ttsdeepgram.WithPlaybackEncoding(device.EncodingInfo())}
		if opts.Voice != "" {
			playbackOpts = append(playbackOpts, ttsdeepgram.WithVoice(ttsdeepgram.Voice(opts.Voice)))
		}
		playbackDevice, err := ttsdeepgram.NewPlaybackDevice(cfg.DeepgramAPIKey, device, playbackOpts...)
		if err != nil {
			return fmt.Errorf("failed to set up speech synthesis: %w", err)
		}
		playback = playbackDevice
	}

	observer := &programObserver{}
	controller = orchestration.NewController(capture, playback, answerer,
		orchestration.WithLocale(cfg.Locale),
		orchestration.WithSilenceDuration(cfg.SilenceDuration),
		orchestration.WithSettleDelay(cfg.SettleDelay),
		orchestration.WithObserver(observer),
	)

	program := tea.NewProgram(newModel(controller, festival.Name, voiceEnabled), tea.WithAltScreen())
	observer.program = program

	return runSession(controller, program)
}

type sessionRunner interface {
	Run(ctx context.Context) error
}

type sessionUI interface {
	Run() (tea.Model, error)
	Send(msg tea.Msg)
}

// runSession runs the controller next to the UI. It returns only after the
// controller finished its teardown, so the caller can close audio devices.
func runSession(controller sessionRunner, ui sessionUI) error {
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		err := controller.Run(ctx)
		ui.Send(ControllerStoppedMsg{Err: err})
	}()

	_, uiErr := ui.Run()
	cancel()
	<-stopped

	if uiErr != nil {
		return fmt.Errorf("terminal ui failed: %w", uiErr)
	}
	return nil
}
