package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"

	"soundscope/internal/models"
	"soundscope/internal/shared"
	"soundscope/internal/store"
	"soundscope/internal/tasks"
	tu "soundscope/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			engine := tasks.NewEngine(&tu.MockProvider{}, tasks.EngineOpts{})

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
				Engine: engine,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.engine != engine {
				t.Error("expected engine to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("without spotify leaves engine nil", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.engine != nil {
				t.Error("expected engine to stay nil without a provider")
			}
		})
	})

	t.Run("requireEngine", func(t *testing.T) {
		t.Run("fails without engine", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			err := runner.requireEngine()
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})

		t.Run("passes with engine", func(t *testing.T) {
			engine := tasks.NewEngine(&tu.MockProvider{}, tasks.EngineOpts{})
			runner := NewRunner(RunnerOpts{Engine: engine})

			if err := runner.requireEngine(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

func analyzeRunner(t *testing.T, provider *tu.MockProvider) (*Runner, *bytes.Buffer) {
	t.Helper()

	output := &bytes.Buffer{}
	engine := tasks.NewEngine(provider, tasks.EngineOpts{RateLimit: 1000, Seed: 1})
	runner := NewRunner(RunnerOpts{Output: output, Engine: engine})
	return runner, output
}

func TestAnalyzeCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("AnalyzeClock prints histogram", func(t *testing.T) {
		provider := &tu.MockProvider{
			Events: []models.PlayEvent{
				{Track: models.Track{ID: "t1", Name: "Song"}, PlayedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)},
			},
		}
		runner, output := analyzeRunner(t, provider)

		if err := runner.AnalyzeClock(ctx, &cli.Command{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Listening Clock") {
			t.Errorf("expected header in output, got %q", result)
		}
	})

	t.Run("AnalyzeClock without engine fails", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

		err := runner.AnalyzeClock(ctx, &cli.Command{})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("AnalyzeGenres prints ranked genres", func(t *testing.T) {
		provider := &tu.MockProvider{
			ArtistsByRange: map[models.TimeRange][]models.Artist{
				models.MediumTerm: {
					{ID: "a1", Name: "Artist", Genres: []string{"indie rock"}},
				},
			},
		}
		runner, output := analyzeRunner(t, provider)

		if err := runner.AnalyzeGenres(ctx, &cli.Command{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Indie Rock") {
			t.Errorf("expected genre in output, got %q", result)
		}
	})

	t.Run("AnalyzeRecommendations prints seed tracks", func(t *testing.T) {
		provider := &tu.MockProvider{
			ArtistsByRange: map[models.TimeRange][]models.Artist{
				models.LongTerm: {{ID: "a1", Name: "Alpha"}},
			},
			ArtistTracks: map[string][]models.Track{
				"a1": {{ID: "t1", Name: "Hit One", Popularity: 90}},
			},
		}
		runner, output := analyzeRunner(t, provider)

		if err := runner.AnalyzeRecommendations(ctx, &cli.Command{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Based on your love for Alpha") {
			t.Errorf("expected seed artist in output, got %q", result)
		}
		if !strings.Contains(result, "Hit One") {
			t.Errorf("expected seed tracks in output, got %q", result)
		}
	})

	t.Run("report seed flag is reproducible", func(t *testing.T) {
		provider := &tu.MockProvider{
			TracksByRange: map[models.TimeRange][]models.Track{
				models.MediumTerm: {
					{ID: "t1", Name: "One", Artists: []models.Artist{{ID: "a1", Name: "Alpha"}}},
					{ID: "t2", Name: "Two", Artists: []models.Artist{{ID: "a1", Name: "Alpha"}}},
				},
			},
		}

		dir := t.TempDir()
		render := func(path string) []byte {
			runner, _ := analyzeRunner(t, provider)
			app := &cli.Command{Commands: runner.register()}
			args := []string{"soundscope", "analyze", "report", "--seed", "7", "--output", path}
			if err := app.Run(ctx, args); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read report: %v", err)
			}
			return data
		}

		first := render(filepath.Join(dir, "first.txt"))
		second := render(filepath.Join(dir, "second.txt"))
		if !bytes.Equal(first, second) {
			t.Error("expected identical reports for the same seed")
		}
	})

	t.Run("fetch failure propagates", func(t *testing.T) {
		provider := &tu.MockProvider{EventsErr: errors.New("boom")}
		runner, _ := analyzeRunner(t, provider)

		err := runner.AnalyzeClock(ctx, &cli.Command{})
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func authRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Tokens: store.NewTokenStore(db),
		Output: output,
	})
	return runner, output
}

// stubExchanger is a minimal Exchanger double for login-flow tests.
type stubExchanger struct {
	token string
	err   error
}

func (s *stubExchanger) Exchange(ctx context.Context, code string) (string, error) {
	return s.token, s.err
}

func (s *stubExchanger) ClientID() string    { return "client123" }
func (s *stubExchanger) RedirectURI() string { return "http://127.0.0.1:5000/api/spotify/callback" }

func TestStoringExchanger(t *testing.T) {
	ctx := context.Background()

	t.Run("stores token and signals success", func(t *testing.T) {
		runner, _ := authRunner(t)
		exchanger := &storingExchanger{
			Exchanger: &stubExchanger{token: "tok123"},
			tokens:    runner.tokens,
			done:      make(chan error, 1),
		}

		token, err := exchanger.Exchange(ctx, "code")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "tok123" {
			t.Errorf("expected token 'tok123', got %q", token)
		}

		stored, err := runner.tokens.Get()
		if err != nil || stored != "tok123" {
			t.Errorf("expected stored token 'tok123', got %q (%v)", stored, err)
		}
		if signaled := <-exchanger.done; signaled != nil {
			t.Errorf("expected nil signal, got %v", signaled)
		}
	})

	t.Run("signals exchange failure", func(t *testing.T) {
		runner, _ := authRunner(t)
		wantErr := errors.New("provider rejected code")
		exchanger := &storingExchanger{
			Exchanger: &stubExchanger{err: wantErr},
			tokens:    runner.tokens,
			done:      make(chan error, 1),
		}

		if _, err := exchanger.Exchange(ctx, "code"); !errors.Is(err, wantErr) {
			t.Fatalf("expected exchange error, got %v", err)
		}
		if signaled := <-exchanger.done; !errors.Is(signaled, wantErr) {
			t.Errorf("expected failure signal, got %v", signaled)
		}
		if _, err := runner.tokens.Get(); !errors.Is(err, shared.ErrNoToken) {
			t.Errorf("expected no token stored, got %v", err)
		}
	})
}

func TestAuthCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("token command stores fragment token", func(t *testing.T) {
		runner, output := authRunner(t)

		app := &cli.Command{Commands: runner.register()}
		if err := app.Run(ctx, []string{"soundscope", "auth", "token", "#access_token=abc123"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		token, err := runner.tokens.Get()
		if err != nil {
			t.Fatalf("expected token stored, got %v", err)
		}
		if token != "abc123" {
			t.Errorf("expected token 'abc123', got %q", token)
		}
		if !strings.Contains(output.String(), "Token stored") {
			t.Errorf("expected confirmation, got %q", output.String())
		}
	})

	t.Run("token command rejects empty fragment", func(t *testing.T) {
		runner, _ := authRunner(t)

		err := runner.AuthToken(ctx, &cli.Command{})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("status reports missing token", func(t *testing.T) {
		runner, output := authRunner(t)

		if err := runner.AuthStatus(ctx, &cli.Command{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Not authenticated") {
			t.Errorf("expected not-authenticated message, got %q", output.String())
		}
	})

	t.Run("logout clears stored token", func(t *testing.T) {
		runner, _ := authRunner(t)

		if err := runner.tokens.Set("abc123"); err != nil {
			t.Fatalf("failed to seed token: %v", err)
		}

		if err := runner.AuthLogout(ctx, &cli.Command{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := runner.tokens.Get(); !errors.Is(err, shared.ErrNoToken) {
			t.Errorf("expected ErrNoToken after logout, got %v", err)
		}
	})

	t.Run("auth commands fail without token store", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

		if err := runner.AuthStatus(ctx, &cli.Command{}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
		if err := runner.AuthLogout(ctx, &cli.Command{}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}
