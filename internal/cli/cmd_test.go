package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/studyguide/internal/curriculum"
	"github.com/alexanderramin/studyguide/internal/domain"
	"github.com/alexanderramin/studyguide/internal/keyserver"
	"github.com/alexanderramin/studyguide/internal/llm"
)

// cmdApp is a non-interactive App, so commands never prompt or animate.
func cmdApp(study *fakeStudy) *App {
	app := testApp(study)
	app.IsInteractive = func() bool { return false }
	return app
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return ansi.Strip(buf.String()), err
}

func TestRootCmd_NonInteractiveShowsHelp(t *testing.T) {
	out, err := executeCmd(t, cmdApp(newFakeStudy()))
	require.NoError(t, err)
	assert.Contains(t, out, "studyguide")
	assert.Contains(t, out, "topics")
	assert.Contains(t, out, "guide")
	assert.Contains(t, out, "define")
	assert.Contains(t, out, "keyserver")
}

func TestTopicsCmd_Tree(t *testing.T) {
	out, err := executeCmd(t, cmdApp(newFakeStudy()), "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "Breath")
	assert.Contains(t, out, "├─ Pranayama Basics")
	assert.Contains(t, out, "└─ Kapalabhati")
	assert.Contains(t, out, "└─ Fasting Therapy")
}

func TestTopicsCmd_Plain(t *testing.T) {
	out, err := executeCmd(t, cmdApp(newFakeStudy()), "topics", "--plain")
	require.NoError(t, err)
	assert.Equal(t, "Pranayama Basics\nKapalabhati\nFasting Therapy\n", out)
}

func TestTopicsCmd_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curriculum.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chapters:\n  - title: Hydrotherapy\n    topics: [Hip Bath, Spinal Spray]\n"), 0o644))

	out, err := executeCmd(t, cmdApp(newFakeStudy()), "topics", "--plain", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "Hip Bath\nSpinal Spray\n", out)
}

func TestTopicsCmd_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curriculum.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chapters:\n  - title: Hydrotherapy\n    topics: []\n  - title: \"\"\n    topics: [Mud Pack]\n"), 0o644))

	out, err := executeCmd(t, cmdApp(newFakeStudy()), "topics", "--file", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, curriculum.ErrInvalid)
	assert.Contains(t, out, "Curriculum is invalid:")
	assert.Contains(t, out, "chapters[0].topics")
	assert.Contains(t, out, "chapters[1].title")
}

func TestGuideCmd_PrintsRenderedGuide(t *testing.T) {
	study := loadedStudy()
	out, err := executeCmd(t, cmdApp(study), "guide", "Pranayama Basics", "--width", "60")
	require.NoError(t, err)

	assert.Equal(t, []string{"Pranayama Basics"}, study.GuideCalls())
	assert.Contains(t, out, "PRANAYAMA BASICS")
	assert.Contains(t, out, "Practise pranayama daily.")
	assert.Contains(t, out, "Inhale")
	assert.NotContains(t, out, "```")
}

func TestGuideCmd_RequiresTopicWhenNotInteractive(t *testing.T) {
	study := loadedStudy()
	_, err := executeCmd(t, cmdApp(study), "guide")
	require.Error(t, err)
	assert.Empty(t, study.GuideCalls())
}

func TestGuideCmd_FailureIsFixedMessage(t *testing.T) {
	study := loadedStudy()
	study.guideErr = llm.ErrNotConfigured
	_, err := executeCmd(t, cmdApp(study), "guide", "Kapalabhati")
	require.Error(t, err)
	assert.Equal(t, domain.GuideFailureMessage, err.Error())
}

func TestGuideCmd_ConfigErrorStopsBeforeCalling(t *testing.T) {
	study := loadedStudy()
	app := cmdApp(study)
	app.ConfigErr = llm.NewStaticKey("").Validate()

	_, err := executeCmd(t, app, "guide", "Kapalabhati")
	require.ErrorIs(t, err, llm.ErrNotConfigured)
	assert.Empty(t, study.GuideCalls())
}

func TestDefineCmd_RendersDefinition(t *testing.T) {
	study := loadedStudy()
	out, err := executeCmd(t, cmdApp(study), "define", "  pranayama ")
	require.NoError(t, err)

	assert.Equal(t, []string{"pranayama"}, study.DefineCalls())
	assert.Contains(t, out, "DEFINITION: PRANAYAMA")
	assert.Contains(t, out, "breath control")
}

func TestDefineCmd_JoinsWordsAndPrintsRaw(t *testing.T) {
	study := loadedStudy()
	study.definitions["nadi shodhana"] = "**Nadi shodhana** is alternate nostril breathing."

	out, err := executeCmd(t, cmdApp(study), "define", "--raw", "nadi", "shodhana")
	require.NoError(t, err)
	assert.Equal(t, "**Nadi shodhana** is alternate nostril breathing.\n", out)
}

func TestDefineCmd_RejectsOutOfBoundsTerms(t *testing.T) {
	study := loadedStudy()

	_, err := executeCmd(t, cmdApp(study), "define", "om")
	require.Error(t, err)

	_, err = executeCmd(t, cmdApp(study), "define", "a very long phrase that goes well past the fifty character limit")
	require.Error(t, err)

	assert.Empty(t, study.DefineCalls())
}

func TestDefineCmd_FailureIsFixedMessage(t *testing.T) {
	study := loadedStudy()
	study.defineErr = llm.ErrBackend
	_, err := executeCmd(t, cmdApp(study), "define", "pranayama")
	require.Error(t, err)
	assert.Equal(t, domain.DefinitionFailureMessage, err.Error())
}

func TestKeyServerCmd_Flags(t *testing.T) {
	t.Setenv("API_KEY", "from-env")

	var gotAddr, gotKey string
	app := cmdApp(newFakeStudy())
	app.RunKeyServer = func(_ context.Context, addr, key string) error {
		gotAddr, gotKey = addr, key
		return nil
	}

	_, err := executeCmd(t, app, "keyserver")
	require.NoError(t, err)
	assert.Equal(t, keyserver.DefaultAddr, gotAddr)
	assert.Equal(t, "from-env", gotKey)

	_, err = executeCmd(t, app, "keyserver", "--addr", "127.0.0.1:9999", "--key", "explicit")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", gotAddr)
	assert.Equal(t, "explicit", gotKey)
}
