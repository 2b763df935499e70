package complyflow_test

import (
	"context"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/complyflow/complyflow"
	"github.com/complyflow/complyflow/service/dao/criteria"
	nmemory "github.com/complyflow/complyflow/service/notify/memory"
	"github.com/complyflow/complyflow/service/target"
	tmemory "github.com/complyflow/complyflow/service/target/memory"
)

const reviewRecipe = `<step prompt="What is the host name?" id="hostname">
<step prompt="Is the host patched?" id="patched">
<step prompt="Sign-off" id="signoff">
<rule test="1 == 1" true="SETANS(signoff, 'pending')" id="r-default">
<rule test="signoff == 'pending'" true="NOTIFY('secops', 'review in progress')" id="r-notify">`

func TestService_EndToEnd(t *testing.T) {
	notifier := nmemory.New()
	srv := complyflow.New(complyflow.WithNotifier(notifier))
	rt := srv.Runtime()
	ctx := context.Background()

	assert.EqualValues(t, []string{"NOTIFY", "SETANS", "SHOWQ"}, srv.Registry().Names())

	image, err := rt.CompileRecipe(ctx, "host-review", reviewRecipe)
	assert.Nil(t, err)
	assert.EqualValues(t, []string{"hostname", "patched", "signoff"}, image.StepOrder)
	assert.Equal(t, "hostname", image.CurrFeature)

	inst, err := rt.NewInstance(ctx, image.UUID)
	assert.Nil(t, err)
	assert.Equal(t, "hostname", inst.CurrFeature)
	assert.False(t, inst.Complete)

	inst, err = rt.Advance(ctx, inst.ID, "auditor")
	assert.Nil(t, err)
	assert.Equal(t, "patched", inst.CurrFeature)
	assert.Equal(t, "pending", inst.Step("signoff").Answer)

	inst, err = rt.Advance(ctx, inst.ID, "auditor")
	assert.Nil(t, err)
	assert.Equal(t, "signoff", inst.CurrFeature)

	inst, err = rt.Advance(ctx, inst.ID, "auditor")
	assert.Nil(t, err)
	assert.True(t, inst.Complete)

	// one notification per advancement once the sign-off answer was seeded
	assert.Equal(t, 3, len(notifier.Notices()))
	assert.Equal(t, "review in progress", notifier.Notices()[0].Message)

	// terminal monotonicity via the facade
	again, err := rt.Advance(ctx, inst.ID, "auditor")
	assert.Nil(t, err)
	assert.True(t, again.Complete)
	assert.Equal(t, inst.CurrFeature, again.CurrFeature)
}

func TestService_RecompileUpdatesImage(t *testing.T) {
	srv := complyflow.New()
	rt := srv.Runtime()
	ctx := context.Background()

	first, err := rt.CompileRecipe(ctx, "review", "<step prompt=\"A\" id=\"a\">")
	assert.Nil(t, err)
	second, err := rt.CompileRecipe(ctx, "review", "<step prompt=\"A\" id=\"a\">\n<step prompt=\"B\" id=\"b\">")
	assert.Nil(t, err)
	assert.Equal(t, first.UUID, second.UUID)

	images, err := rt.Images(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(images))
	assert.Equal(t, 2, len(images[0].StepOrder))
}

func TestService_InstanceSets(t *testing.T) {
	targets := tmemory.New()
	targets.Register(
		&target.Entity{ID: "web-01", Kind: "host"},
		&target.Entity{ID: "web-02", Kind: "host"},
	)
	srv := complyflow.New(complyflow.WithTargetService(targets))
	rt := srv.Runtime()
	ctx := context.Background()

	image, err := rt.CompileRecipe(ctx, "fleet-review", "<step prompt=\"Patched?\" id=\"patched\">")
	assert.Nil(t, err)

	set, created, err := rt.NewInstanceSet(ctx, image.UUID, "q3", criteria.All())
	assert.Nil(t, err)
	assert.Equal(t, 2, len(created))

	instances, err := rt.Instances(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(instances))

	assert.Nil(t, rt.DeleteInstanceSet(ctx, set.ID))
	instances, err = rt.Instances(ctx)
	assert.Nil(t, err)
	assert.Empty(t, instances)
}

func TestService_FsImageStore(t *testing.T) {
	baseURL := path.Join(t.TempDir(), "images")
	srv := complyflow.New(complyflow.WithConfig(&complyflow.Config{
		Store: complyflow.StoreConfig{BaseURL: baseURL},
	}))
	rt := srv.Runtime()
	ctx := context.Background()

	image, err := rt.CompileRecipe(ctx, "persisted", "<step prompt=\"A\" id=\"a\">")
	assert.Nil(t, err)

	// a fresh engine over the same base URL sees the compiled image
	reopened := complyflow.New(complyflow.WithConfig(&complyflow.Config{
		Store: complyflow.StoreConfig{BaseURL: baseURL},
	}))
	loaded, err := reopened.Runtime().Image(ctx, image.UUID)
	assert.Nil(t, err)
	assert.Equal(t, "persisted", loaded.Name)

	// recompiling under the same name updates the stored image in place
	recompiled, err := reopened.Runtime().CompileRecipe(ctx, "persisted", "<step prompt=\"A\" id=\"a\">\n<step prompt=\"B\" id=\"b\">")
	assert.Nil(t, err)
	assert.Equal(t, image.UUID, recompiled.UUID)
}
