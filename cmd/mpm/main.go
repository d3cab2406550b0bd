// Command mpm manages Minecraft modpacks and converts them between game versions and loaders.
package main

func main() {
	Execute()
}
