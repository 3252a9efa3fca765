package core

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"
	"github.com/smartystreets/logging"

	"github.com/smarty/libman/contracts"
	"github.com/smarty/libman/shell"
)

func TestManifestFixture(t *testing.T) {
	gunit.Run(new(ManifestFixture), t)
}

type ManifestFixture struct {
	*gunit.Fixture
	host         *shell.InMemoryFileSystem
	factory      *FakeProviderFactory
	dependencies *Dependencies
}

func (this *ManifestFixture) Setup() {
	this.host = shell.NewInMemoryFileSystem()
	this.factory = NewFakeProviderFactory("fake")
	this.factory.resolver.prepare("a@1.0.0", map[string]string{"a.js": "A"})
	this.factory.resolver.prepare("b@1.0.0", map[string]string{"b.js": "B"})
	this.factory.resolver.prepare("b@2.0.0", map[string]string{"b.js": "B2"})
	this.dependencies = NewDependencies(this.host, this.factory)
}

func (this *ManifestFixture) TestParseAbsentDocument() {
	for _, raw := range []string{"", "   \n", "{}"} {
		manifest, err := FromJSON([]byte(raw), this.dependencies)

		this.So(err, should.BeNil)
		this.So(manifest.Libraries(), should.BeEmpty)
		this.So(manifest.Version(), should.Equal, contracts.CurrentManifestVersion)
	}
}

func (this *ManifestFixture) TestParseMalformedDocument() {
	manifest, err := FromJSON([]byte("malformed json"), this.dependencies)

	this.So(manifest, should.BeNil)
	this.So(err, should.NotBeNil)
}

func (this *ManifestFixture) TestParseIgnoresUnknownFields() {
	manifest, err := FromJSON([]byte(`{
		"version": "2.0",
		"defaultProvider": "cdnjs",
		"libraries": [
			{"provider": "fake", "library": "a@1.0.0", "destination": "lib", "files": ["a.js"], "extra": true},
			{"provider": "fake", "library": "b@1.0.0", "destination": "lib"}
		]
	}`), this.dependencies)

	this.So(err, should.BeNil)
	this.So(manifest.Version(), should.Equal, "2.0")
	this.So(manifest.Libraries(), should.Resemble, []*contracts.LibraryInstallationState{
		{ProviderId: "fake", LibraryId: "a@1.0.0", DestinationPath: "lib", Files: []string{"a.js"}},
		{ProviderId: "fake", LibraryId: "b@1.0.0", DestinationPath: "lib"},
	})
}

func (this *ManifestFixture) TestRoundTrip() {
	original := `{"version":"1.0","libraries":[
		{"provider":"fake","library":"b@1.0.0","destination":"vendor/b","files":["b.js"]},
		{"provider":"fake","library":"a@1.0.0","destination":"vendor/a","files":["a.js","a.min.js"]},
		{"provider":"fake","library":"c","destination":"vendor/c"}]}`
	first, err := FromJSON([]byte(original), this.dependencies)
	this.So(err, should.BeNil)

	raw, err := first.ToJSON()
	this.So(err, should.BeNil)
	second, err := FromJSON(raw, this.dependencies)

	this.So(err, should.BeNil)
	this.So(second.Version(), should.Equal, first.Version())
	this.So(second.Libraries(), should.Resemble, first.Libraries())
}

func (this *ManifestFixture) TestEmptyManifestSerializesLibrariesArray() {
	raw, err := NewManifest(this.dependencies).ToJSON()

	this.So(err, should.BeNil)
	var document map[string]interface{}
	this.So(json.Unmarshal(raw, &document), should.BeNil)
	this.So(document["libraries"], should.Resemble, []interface{}{})
	this.So(document["version"], should.Equal, "1.0")
}

func (this *ManifestFixture) TestSaveWritesThroughHost() {
	manifest := NewManifest(this.dependencies)
	manifest.AddLibrary(this.state("a@1.0.0", "lib", "a.js"))

	err := manifest.Save(context.Background(), "libman.json")

	this.So(err, should.BeNil)
	raw, err := this.host.ReadFile("libman.json")
	this.So(err, should.BeNil)
	saved, err := FromJSON(raw, this.dependencies)
	this.So(err, should.BeNil)
	this.So(saved.Libraries(), should.Resemble, manifest.Libraries())
}

func (this *ManifestFixture) TestAddLibraryAppends() {
	manifest := NewManifest(this.dependencies)

	manifest.AddLibrary(this.state("a@1.0.0", "lib", "a.js"))
	manifest.AddLibrary(this.state("b@1.0.0", "lib", "b.js"))

	this.So(manifest.Libraries(), should.HaveLength, 2)
	this.So(manifest.Libraries()[1].LibraryId, should.Equal, "b@1.0.0")
}

func (this *ManifestFixture) TestAddLibraryReplacesSameKeyInPlace() {
	manifest := NewManifest(this.dependencies)
	manifest.AddLibrary(this.state("a@1.0.0", "lib", "a.js"))
	manifest.AddLibrary(this.state("b@1.0.0", "lib", "b.js"))

	replacement := this.state("a@1.0.0", "lib/", "a.js", "a.min.js")
	manifest.AddLibrary(replacement)

	this.So(manifest.Libraries(), should.HaveLength, 2)
	this.So(manifest.Libraries()[0], should.Equal, replacement)
}

func (this *ManifestFixture) TestRemoveLibrary() {
	manifest := NewManifest(this.dependencies)
	manifest.AddLibrary(this.state("a@1.0.0", "lib", "a.js"))
	manifest.AddLibrary(this.state("b@1.0.0", "lib", "b.js"))

	this.So(manifest.RemoveLibrary(this.state("a@1.0.0", "lib")), should.BeTrue)
	this.So(manifest.RemoveLibrary(this.state("a@1.0.0", "lib")), should.BeFalse)
	this.So(manifest.Libraries(), should.HaveLength, 1)
	this.So(manifest.Libraries()[0].LibraryId, should.Equal, "b@1.0.0")
}

func (this *ManifestFixture) TestRestoreInstallsEveryLibrary() {
	manifest := NewManifest(this.dependencies)
	manifest.AddLibrary(this.state("a@1.0.0", "lib/a", "a.js"))
	manifest.AddLibrary(this.state("b@1.0.0", "lib/b", "b.js"))

	results := manifest.Restore(context.Background())

	this.So(results, should.HaveLength, 2)
	this.So(results[0].Success(), should.BeTrue)
	this.So(results[1].Success(), should.BeTrue)
	this.So(this.read("lib/a/a.js"), should.Equal, "A")
	this.So(this.read("lib/b/b.js"), should.Equal, "B")
}

func (this *ManifestFixture) TestRestoreIsolatesFailures() {
	manifest := NewManifest(this.dependencies)
	invalid := this.state("does-not-exist", "lib/x", "x.js")
	valid := this.state("a@1.0.0", "lib/a", "a.js")
	manifest.AddLibrary(invalid)
	manifest.AddLibrary(valid)

	results := manifest.Restore(context.Background())

	this.So(results, should.HaveLength, 2)
	this.So(results[0].State, should.Equal, invalid)
	this.So(results[0].Success(), should.BeFalse)
	this.So(results[0].Errors[0].Code, should.Equal, "LIB002")
	this.So(results[1].State, should.Equal, valid)
	this.So(results[1].Success(), should.BeTrue)
}

func (this *ManifestFixture) TestRestoreReportsInDeclaredOrder() {
	manifest := NewManifest(this.dependencies)
	manifest.SetConcurrency(4)
	var declared []*contracts.LibraryInstallationState
	for _, destination := range []string{"d1", "d2", "d3", "d4", "d5", "d6", "d7", "d8"} {
		state := this.state("a@1.0.0", destination, "a.js")
		declared = append(declared, state)
		manifest.AddLibrary(state)
	}

	results := manifest.Restore(context.Background())

	this.So(results, should.HaveLength, len(declared))
	for index, result := range results {
		this.So(result.State, should.Equal, declared[index])
		this.So(result.Success(), should.BeTrue)
	}
}

func (this *ManifestFixture) TestRestoreCancelledBeforeStart() {
	manifest := NewManifest(this.dependencies)
	manifest.AddLibrary(this.state("a@1.0.0", "lib/a", "a.js"))
	manifest.AddLibrary(this.state("b@1.0.0", "lib/b", "b.js"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := manifest.Restore(ctx)

	this.So(results, should.HaveLength, 2)
	for _, result := range results {
		this.So(result.Cancelled, should.BeTrue)
		this.So(result.Success(), should.BeFalse)
	}
	this.So(this.host.Writes(), should.BeEmpty)
}

func (this *ManifestFixture) TestRestoreSameDestinationInDeclaredOrder() {
	manifest := NewManifest(this.dependencies)
	manifest.AddLibrary(this.state("b@1.0.0", "lib", "b.js"))
	manifest.AddLibrary(this.state("b@2.0.0", "lib/", "b.js"))

	results := manifest.Restore(context.Background())

	this.So(results[0].Success(), should.BeTrue)
	this.So(results[1].Success(), should.BeTrue)
	this.So(this.read("lib/b.js"), should.Equal, "B2")
}

func (this *ManifestFixture) TestRestoreWithFilter() {
	manifest := NewManifest(this.dependencies)
	manifest.AddLibrary(this.state("a@1.0.0", "lib/a", "a.js"))
	manifest.AddLibrary(this.state("b@1.0.0", "lib/b", "b.js"))

	results := manifest.Restore(context.Background(), "b")

	this.So(results, should.HaveLength, 1)
	this.So(results[0].State.LibraryId, should.Equal, "b@1.0.0")
	this.So(this.host.Exists("lib/a/a.js"), should.BeFalse)
}

func (this *ManifestFixture) TestRestoreUnknownProvider() {
	manifest := NewManifest(this.dependencies)
	state := this.state("a@1.0.0", "lib/a", "a.js")
	state.ProviderId = "unregistered"
	manifest.AddLibrary(state)

	results := manifest.Restore(context.Background())

	this.So(results, should.HaveLength, 1)
	this.So(results[0].Errors, should.HaveLength, 1)
	this.So(results[0].Errors[0].Code, should.Equal, "LIB007")
}

func (this *ManifestFixture) TestRestoreEmptyProvider() {
	manifest := NewManifest(this.dependencies)
	state := this.state("a@1.0.0", "lib/a", "a.js")
	state.ProviderId = ""
	manifest.AddLibrary(state)

	results := manifest.Restore(context.Background())

	this.So(results[0].Errors, should.HaveLength, 1)
	this.So(results[0].Errors[0].Code, should.Equal, "LIB007")
}

func (this *ManifestFixture) TestRestoreSurvivesPanickingProvider() {
	this.dependencies.Register(NewFakeProviderFactory("panics"))
	provider, _ := this.dependencies.GetProvider("panics")
	provider.(*FakeProvider).panics = true
	manifest := NewManifest(this.dependencies)
	manifest.logger = logging.Capture()
	state := this.state("a@1.0.0", "lib/a", "a.js")
	state.ProviderId = "panics"
	manifest.AddLibrary(state)
	manifest.AddLibrary(this.state("b@1.0.0", "lib/b", "b.js"))

	results := manifest.Restore(context.Background())

	this.So(results, should.HaveLength, 2)
	this.So(results[0].Errors[0].Code, should.Equal, "LIB001")
	this.So(results[1].Success(), should.BeTrue)
}

func (this *ManifestFixture) TestUninstallLibrary() {
	manifest := NewManifest(this.dependencies)
	state := this.state("a@1.0.0", "lib/a", "a.js")
	manifest.AddLibrary(state)
	manifest.Restore(context.Background())

	result := manifest.UninstallLibrary(context.Background(), state)

	this.So(result.Success(), should.BeTrue)
	this.So(this.host.Exists("lib/a/a.js"), should.BeFalse)
	this.So(manifest.Libraries(), should.BeEmpty)
}

func (this *ManifestFixture) TestCleanKeepsEntries() {
	manifest := NewManifest(this.dependencies)
	manifest.AddLibrary(this.state("a@1.0.0", "lib/a", "a.js"))
	manifest.AddLibrary(this.state("b@1.0.0", "lib/b", "b.js"))
	manifest.Restore(context.Background())

	results := manifest.Clean(context.Background())

	this.So(results, should.HaveLength, 2)
	this.So(this.host.Listing(), should.BeEmpty)
	this.So(manifest.Libraries(), should.HaveLength, 2)
}

func (this *ManifestFixture) TestFindLibraries() {
	manifest := NewManifest(this.dependencies)
	manifest.AddLibrary(this.state("a@1.0.0", "lib/a", "a.js"))
	manifest.AddLibrary(this.state("b@1.0.0", "lib/b", "b.js"))

	this.So(manifest.FindLibraries("a"), should.HaveLength, 1)
	this.So(manifest.FindLibraries(), should.BeEmpty)
}

func (this *ManifestFixture) state(libraryId, destination string, files ...string) *contracts.LibraryInstallationState {
	return &contracts.LibraryInstallationState{
		ProviderId:      "fake",
		LibraryId:       libraryId,
		DestinationPath: destination,
		Files:           files,
	}
}

func (this *ManifestFixture) read(path string) string {
	raw, err := this.host.ReadFile(path)
	this.So(err, should.BeNil)
	return string(raw)
}
