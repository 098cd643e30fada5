//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	appvideo "clipdesk/application/video"
	"clipdesk/cmd"
	"clipdesk/domain/video"
	"clipdesk/infrastructure/ffmpeg"

	"github.com/cucumber/godog"
)

// mockFileChecker simulates file existence
type mockFileChecker struct {
	existingFiles map[string]bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

// mediaContext holds test state for trim, extract and metadata scenarios
type mediaContext struct {
	invoker     *scriptedInvoker
	fileChecker *mockFileChecker
	policy      appvideo.Policy
	output      *bytes.Buffer
	err         error
}

// SharedMediaContext is reset before each scenario via Before hook
var SharedMediaContext *mediaContext

func getMediaContext() *mediaContext {
	return SharedMediaContext
}

func InitializeMediaScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedMediaContext = &mediaContext{
			invoker:     &scriptedInvoker{},
			fileChecker: &mockFileChecker{existingFiles: make(map[string]bool)},
			policy:      appvideo.DefaultPolicy(),
			output:      &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedMediaContext = nil
		return c, nil
	})

	ctx.Step(`^a source video at "([^"]*)"$`, aSourceVideoAt)
	ctx.Step(`^local validation is disabled$`, localValidationIsDisabled)
	ctx.Step(`^ffmpeg is not installed$`, ffmpegIsNotInstalled)
	ctx.Step(`^the tool exits with code (\d+) and stderr "([^"]*)"$`, theToolExitsWithCodeAndStderr)
	ctx.Step(`^the tool writes to stderr:$`, theToolWritesToStderr)
	ctx.Step(`^the tool writes to stdout:$`, theToolWritesToStdout)

	ctx.Step(`^I trim "([^"]*)" into "([^"]*)" starting at "([^"]*)" for "([^"]*)"$`, iTrimIntoStartingAtFor)
	ctx.Step(`^I extract audio from "([^"]*)" into "([^"]*)"$`, iExtractAudioFromInto)
	ctx.Step(`^I extract audio from "([^"]*)" into "([^"]*)" with progress mode "([^"]*)"$`, iExtractAudioFromIntoWithProgressMode)
	ctx.Step(`^I read the metadata of "([^"]*)"$`, iReadTheMetadataOf)
	ctx.Step(`^I read the raw metadata of "([^"]*)"$`, iReadTheRawMetadataOf)

	ctx.Step(`^the tool should have been called with arguments:$`, theToolShouldHaveBeenCalledWithArguments)
	ctx.Step(`^the tool should not have been started$`, theToolShouldNotHaveBeenStarted)
	ctx.Step(`^the command should succeed$`, theCommandShouldSucceed)
	ctx.Step(`^the output should contain "([^"]*)"$`, theOutputShouldContain)
	ctx.Step(`^the output should not contain "([^"]*)"$`, theOutputShouldNotContain)
	ctx.Step(`^the output should contain:$`, theOutputShouldContainText)
	ctx.Step(`^the command should fail with a "([^"]*)" error$`, theCommandShouldFailWithAError)
	ctx.Step(`^the error message should contain "([^"]*)"$`, theErrorMessageShouldContain)
	ctx.Step(`^the output lines should be:$`, theOutputLinesShouldBe)
}

func aSourceVideoAt(path string) error {
	getMediaContext().fileChecker.existingFiles[path] = true
	return nil
}

func localValidationIsDisabled() error {
	getMediaContext().policy = appvideo.Policy{}
	return nil
}

func ffmpegIsNotInstalled() error {
	getMediaContext().invoker.startErr = exec.ErrNotFound
	return nil
}

func theToolExitsWithCodeAndStderr(code int, stderr string) error {
	m := getMediaContext()
	m.invoker.exitCode = code
	m.invoker.stderr = stderr
	return nil
}

func theToolWritesToStderr(doc *godog.DocString) error {
	getMediaContext().invoker.stderr = doc.Content
	return nil
}

func theToolWritesToStdout(doc *godog.DocString) error {
	getMediaContext().invoker.stdout = doc.Content
	return nil
}

func (m *mediaContext) options() []appvideo.Option {
	return []appvideo.Option{appvideo.WithPolicy(m.policy)}
}

func iTrimIntoStartingAtFor(input, output, start, duration string) error {
	m := getMediaContext()
	in, err := cmd.BuildTrimInput(input, output, start, duration, "")
	if err != nil {
		m.err = err
		return nil
	}
	trimmer := ffmpeg.NewTrimmer(ffmpeg.WithInvoker(m.invoker))
	m.err = cmd.RunTrimWithDependencies(context.Background(), trimmer, m.fileChecker, m.options(), in, m.output)
	return nil
}

func iExtractAudioFromInto(input, output string) error {
	return iExtractAudioFromIntoWithProgressMode(input, output, "")
}

func iExtractAudioFromIntoWithProgressMode(input, output, mode string) error {
	m := getMediaContext()
	extractor := ffmpeg.NewExtractor(ffmpeg.WithExtractorInvoker(m.invoker))
	m.err = cmd.RunExtractAudioWithDependencies(context.Background(), extractor, m.fileChecker, m.options(),
		appvideo.ExtractInput{InputPath: input, OutputPath: output, ProgressMode: mode}, m.output)
	return nil
}

func iReadTheMetadataOf(path string) error {
	return readMetadata(path, "normalized", true)
}

func iReadTheRawMetadataOf(path string) error {
	return readMetadata(path, "raw", false)
}

func readMetadata(path, mode string, asJSON bool) error {
	m := getMediaContext()
	prober := ffmpeg.NewProber(ffmpeg.WithProberInvoker(m.invoker))
	m.err = cmd.RunMetadataWithDependencies(context.Background(), prober, m.fileChecker, m.options(),
		appvideo.MetadataInput{FilePath: path, Mode: mode}, asJSON, m.output)
	return nil
}

func theToolShouldHaveBeenCalledWithArguments(table *godog.Table) error {
	m := getMediaContext()
	if len(m.invoker.calls) == 0 {
		return fmt.Errorf("the tool was never started")
	}

	var want []string
	for _, row := range table.Rows {
		want = append(want, row.Cells[0].Value)
	}
	got := m.invoker.calls[len(m.invoker.calls)-1].Args

	if strings.Join(got, "\x00") != strings.Join(want, "\x00") {
		return fmt.Errorf("expected arguments %q, got %q", want, got)
	}
	return nil
}

func theToolShouldNotHaveBeenStarted() error {
	if n := len(getMediaContext().invoker.calls); n != 0 {
		return fmt.Errorf("expected no tool invocation, got %d", n)
	}
	return nil
}

func theCommandShouldSucceed() error {
	if err := getMediaContext().err; err != nil {
		return fmt.Errorf("expected success, got: %v", err)
	}
	return nil
}

func theOutputShouldContain(text string) error {
	if out := getMediaContext().output.String(); !strings.Contains(out, text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, out)
	}
	return nil
}

func theOutputShouldContainText(doc *godog.DocString) error {
	return theOutputShouldContain(doc.Content)
}

func theOutputShouldNotContain(text string) error {
	if out := getMediaContext().output.String(); strings.Contains(out, text) {
		return fmt.Errorf("expected output not to contain %q, got:\n%s", text, out)
	}
	return nil
}

func theCommandShouldFailWithAError(kind string) error {
	err := getMediaContext().err
	if err == nil {
		return fmt.Errorf("expected a %s error, got success", kind)
	}
	if got := string(video.KindOf(err)); got != kind {
		return fmt.Errorf("expected a %s error, got %q (%v)", kind, got, err)
	}
	return nil
}

func theErrorMessageShouldContain(text string) error {
	err := getMediaContext().err
	if err == nil {
		return fmt.Errorf("expected an error, got success")
	}
	if !strings.Contains(err.Error(), text) {
		return fmt.Errorf("expected error containing %q, got %q", text, err.Error())
	}
	return nil
}

func theOutputLinesShouldBe(table *godog.Table) error {
	var got []string
	for _, line := range strings.Split(getMediaContext().output.String(), "\n") {
		if strings.HasPrefix(line, "  ") {
			got = append(got, strings.TrimSpace(line))
		}
	}

	var want []string
	for _, row := range table.Rows {
		want = append(want, row.Cells[0].Value)
	}

	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		return fmt.Errorf("expected progress lines %q, got %q", want, got)
	}
	return nil
}
